package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := InsufficientStock("part %s: short by %d", "DRL-001", 10)
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, "part DRL-001: short by 10", err.Error())

	// kind survives wrapping
	wrapped := fmt.Errorf("create rental: %w", err)
	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindInsufficientStock))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{State("wrong state"), http.StatusUnprocessableEntity},
		{InsufficientStock("short"), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error %v", tc.err)
	}
}
