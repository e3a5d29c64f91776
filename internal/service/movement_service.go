package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateMovementRequest struct {
	PartID   string `json:"part_id" binding:"required"`
	Kind     string `json:"kind" binding:"required,oneof=inbound outbound"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required"`
}

type MovementService interface {
	GetMovements(ctx context.Context, page, limit int, filter repository.MovementFilter) ([]model.StockMovement, int64, error)
	CreateMovement(ctx context.Context, actorID string, req CreateMovementRequest) (*model.StockMovement, error)
	Report(ctx context.Context, days int) (*model.MovementReport, error)
}

type movementService struct {
	movementRepo repository.StockMovementRepository
	partRepo     repository.PartRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewMovementService(
	movementRepo repository.StockMovementRepository,
	partRepo repository.PartRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) MovementService {
	return &movementService{
		movementRepo: movementRepo,
		partRepo:     partRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *movementService) GetMovements(ctx context.Context, page, limit int, filter repository.MovementFilter) ([]model.StockMovement, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.movementRepo.List(ctx, page, limit, filter)
}

// CreateMovement records a manual ledger entry and applies it to the part's
// total quantity in the same transaction. Inbound adds stock, outbound
// removes available stock (write-offs, damage, maintenance).
func (s *movementService) CreateMovement(ctx context.Context, actorID string, req CreateMovementRequest) (*model.StockMovement, error) {
	partID, err := uuid.Parse(req.PartID)
	if err != nil {
		return nil, apperror.Validation("invalid part_id: %s", req.PartID)
	}

	var created *model.StockMovement
	var touched *model.Part

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		part, err := s.partRepo.FindByIDForUpdate(txCtx, partID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("part not found: %s", req.PartID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		switch req.Kind {
		case model.MovementInbound:
			part.QuantityTotal += req.Quantity
		case model.MovementOutbound:
			if req.Quantity > part.QuantityAvailable {
				shortfall := req.Quantity - part.QuantityAvailable
				return apperror.InsufficientStock("part %s: cannot remove %d units, only %d available (short by %d)",
					part.Code, req.Quantity, part.QuantityAvailable, shortfall)
			}
			part.QuantityTotal -= req.Quantity
		}
		part.QuantityAvailable = part.QuantityTotal - part.QuantityRented

		if err := s.partRepo.Update(txCtx, part); err != nil {
			return fmt.Errorf("failed to update part stock: %w", err)
		}

		movement := &model.StockMovement{
			PartID:   part.ID,
			Kind:     req.Kind,
			Quantity: req.Quantity,
			Reason:   req.Reason,
			UserID:   actorUUID(actorID),
		}
		if err := s.movementRepo.Create(txCtx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		created = movement
		touched = part
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.hub != nil && touched != nil {
		s.hub.BroadcastStockEvent(ws.StockEvent{
			Event:             "stock.updated",
			PartID:            touched.ID.String(),
			Code:              touched.Code,
			QuantityTotal:     touched.QuantityTotal,
			QuantityAvailable: touched.QuantityAvailable,
			QuantityRented:    touched.QuantityRented,
		})
	}
	return created, nil
}

func (s *movementService) Report(ctx context.Context, days int) (*model.MovementReport, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	report, err := s.movementRepo.Report(ctx, since)
	if err != nil {
		return nil, err
	}
	report.PeriodDays = days
	return report, nil
}
