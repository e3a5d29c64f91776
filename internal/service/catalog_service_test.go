package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePartTypeRequiresPositivePrice(t *testing.T) {
	svc := NewCatalogService(new(mockPartTypeRepo))

	for _, price := range []string{"0", "-10.00"} {
		_, err := svc.CreatePartType(context.Background(), CreatePartTypeRequest{
			Name:            "Rotary Drill",
			RentalUnitPrice: decimal.RequireFromString(price),
		})
		require.Error(t, err, "price %s", price)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "price %s", price)
	}
}

func TestCreatePartType(t *testing.T) {
	repo := new(mockPartTypeRepo)
	svc := NewCatalogService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.PartType")).Return(nil)

	partType, err := svc.CreatePartType(context.Background(), CreatePartTypeRequest{
		Name:            "Rotary Drill",
		Description:     "800W rotary drill",
		RentalUnitPrice: decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rotary Drill", partType.Name)
	assert.True(t, partType.RentalUnitPrice.Equal(decimal.RequireFromString("25.00")))
}

func TestUpdatePartTypePrice(t *testing.T) {
	repo := new(mockPartTypeRepo)
	svc := NewCatalogService(repo)

	typeID := uuid.New()
	repo.On("FindByID", mock.Anything, typeID).Return(&model.PartType{
		ID:              typeID,
		Name:            "Rotary Drill",
		RentalUnitPrice: decimal.RequireFromString("25.00"),
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.PartType")).Return(nil)

	newPrice := decimal.RequireFromString("30.00")
	updated, err := svc.UpdatePartType(context.Background(), typeID.String(), UpdatePartTypeRequest{RentalUnitPrice: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.RentalUnitPrice.Equal(newPrice))

	zero := decimal.Zero
	_, err = svc.UpdatePartType(context.Background(), typeID.String(), UpdatePartTypeRequest{RentalUnitPrice: &zero})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestStatisticsRanksTopFive(t *testing.T) {
	repo := new(mockPartTypeRepo)
	svc := NewCatalogService(repo)

	repo.On("Statistics", mock.Anything, 5).Return(&model.PartTypeStats{TotalTypes: 12}, nil)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalTypes)
	repo.AssertExpectations(t)
}
