package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartBeforeSaveDerivesAvailable(t *testing.T) {
	part := &Part{Code: "DRL-001", QuantityTotal: 50, QuantityRented: 10, QuantityAvailable: 999}

	require.NoError(t, part.BeforeSave(nil))
	assert.Equal(t, 40, part.QuantityAvailable)
}

func TestPartBeforeSaveRejectsNegativeCounters(t *testing.T) {
	cases := []struct {
		name string
		part Part
	}{
		{"negative total", Part{Code: "X", QuantityTotal: -1}},
		{"negative rented", Part{Code: "X", QuantityTotal: 5, QuantityRented: -1}},
		{"rented exceeds total", Part{Code: "X", QuantityTotal: 5, QuantityRented: 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.part.BeforeSave(nil))
		})
	}
}

func TestPartBeforeSaveZeroStock(t *testing.T) {
	part := &Part{Code: "DRL-001"}
	require.NoError(t, part.BeforeSave(nil))
	assert.Equal(t, 0, part.QuantityAvailable)
}
