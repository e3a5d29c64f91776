package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMovementFixture(t *testing.T) (*mockMovementRepo, *mockPartRepo, MovementService) {
	t.Helper()
	movementRepo := new(mockMovementRepo)
	partRepo := new(mockPartRepo)
	svc := NewMovementService(movementRepo, partRepo, &fakeTxManager{}, nil)
	return movementRepo, partRepo, svc
}

func TestCreateMovementInbound(t *testing.T) {
	movementRepo, partRepo, svc := newMovementFixture(t)

	partID := uuid.New()
	part := &model.Part{ID: partID, Code: "GEN-003", QuantityTotal: 10, QuantityAvailable: 8, QuantityRented: 2}
	partRepo.On("FindByIDForUpdate", mock.Anything, partID).Return(part, nil)
	partRepo.On("Update", mock.Anything, part).Return(nil)
	movementRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.StockMovement")).Return(nil)

	movement, err := svc.CreateMovement(context.Background(), uuid.NewString(), CreateMovementRequest{
		PartID:   partID.String(),
		Kind:     model.MovementInbound,
		Quantity: 5,
		Reason:   "restock from supplier",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MovementInbound, movement.Kind)
	assert.Equal(t, 5, movement.Quantity)
	assert.Equal(t, 15, part.QuantityTotal)
	assert.Equal(t, 13, part.QuantityAvailable)
	assert.Equal(t, 2, part.QuantityRented)
}

func TestCreateMovementOutbound(t *testing.T) {
	movementRepo, partRepo, svc := newMovementFixture(t)

	partID := uuid.New()
	part := &model.Part{ID: partID, Code: "GEN-003", QuantityTotal: 10, QuantityAvailable: 8, QuantityRented: 2}
	partRepo.On("FindByIDForUpdate", mock.Anything, partID).Return(part, nil)
	partRepo.On("Update", mock.Anything, part).Return(nil)
	movementRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.StockMovement")).Return(nil)

	_, err := svc.CreateMovement(context.Background(), "", CreateMovementRequest{
		PartID:   partID.String(),
		Kind:     model.MovementOutbound,
		Quantity: 3,
		Reason:   "damaged in storage",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, part.QuantityTotal)
	assert.Equal(t, 5, part.QuantityAvailable)
}

func TestCreateMovementOutboundInsufficient(t *testing.T) {
	movementRepo, partRepo, svc := newMovementFixture(t)

	partID := uuid.New()
	part := &model.Part{ID: partID, Code: "GEN-003", QuantityTotal: 10, QuantityAvailable: 2, QuantityRented: 8}
	partRepo.On("FindByIDForUpdate", mock.Anything, partID).Return(part, nil)

	_, err := svc.CreateMovement(context.Background(), "", CreateMovementRequest{
		PartID:   partID.String(),
		Kind:     model.MovementOutbound,
		Quantity: 5,
		Reason:   "write-off",
	})
	require.Error(t, err)

	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
	assert.Contains(t, err.Error(), "short by 3")
	assert.Equal(t, 10, part.QuantityTotal)
	partRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMovementReportDefaultsWindow(t *testing.T) {
	movementRepo, _, svc := newMovementFixture(t)

	movementRepo.On("Report", mock.Anything, mock.AnythingOfType("time.Time")).Return(&model.MovementReport{
		TotalInbound:  12,
		TotalOutbound: 7,
		Net:           5,
	}, nil)

	report, err := svc.Report(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, report.PeriodDays)
	assert.Equal(t, 5, report.Net)
}
