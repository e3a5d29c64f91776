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
type CreatePartRequest struct {
	PartTypeID    string `json:"part_type_id" binding:"required"`
	Code          string `json:"code" binding:"required"`
	QuantityTotal int    `json:"quantity_total" binding:"gte=0"`
	Notes         string `json:"notes"`
}

type UpdatePartRequest struct {
	PartTypeID *string `json:"part_type_id"`
	Code       *string `json:"code"`
	Notes      *string `json:"notes"`
}

type AdjustStockRequest struct {
	QuantityTotal *int   `json:"quantity_total" binding:"required,gte=0"`
	Reason        string `json:"reason"`
}

type PartResponse struct {
	ID                string    `json:"id"`
	PartTypeID        string    `json:"part_type_id"`
	PartTypeName      string    `json:"part_type_name,omitempty"`
	Code              string    `json:"code"`
	QuantityTotal     int       `json:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantityRented    int       `json:"quantity_rented"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type InventoryService interface {
	GetParts(ctx context.Context, page, limit int, partTypeID, search string) ([]PartResponse, int64, error)
	GetPart(ctx context.Context, id string) (PartResponse, error)
	CreatePart(ctx context.Context, req CreatePartRequest) (PartResponse, error)
	UpdatePart(ctx context.Context, id string, req UpdatePartRequest) (PartResponse, error)
	DeletePart(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, actorID, id string, req AdjustStockRequest) (PartResponse, error)
	LowStock(ctx context.Context, threshold int) ([]PartResponse, error)
	StockReport(ctx context.Context) (*model.StockReport, error)
}

type inventoryService struct {
	partRepo     repository.PartRepository
	partTypeRepo repository.PartTypeRepository
	movementRepo repository.StockMovementRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewInventoryService(
	partRepo repository.PartRepository,
	partTypeRepo repository.PartTypeRepository,
	movementRepo repository.StockMovementRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		partRepo:     partRepo,
		partTypeRepo: partTypeRepo,
		movementRepo: movementRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// actorUUID parses the JWT subject into a user reference for the ledger
func actorUUID(actorID string) *uuid.UUID {
	if parsed, err := uuid.Parse(actorID); err == nil {
		return &parsed
	}
	return nil
}

func mapPartToResponse(p *model.Part) PartResponse {
	res := PartResponse{
		ID:                p.ID.String(),
		PartTypeID:        p.PartTypeID.String(),
		Code:              p.Code,
		QuantityTotal:     p.QuantityTotal,
		QuantityAvailable: p.QuantityAvailable,
		QuantityRented:    p.QuantityRented,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.PartType != nil {
		res.PartTypeName = p.PartType.Name
	}
	return res
}

func (s *inventoryService) broadcastStock(part *model.Part) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastStockEvent(ws.StockEvent{
		Event:             "stock.updated",
		PartID:            part.ID.String(),
		Code:              part.Code,
		QuantityTotal:     part.QuantityTotal,
		QuantityAvailable: part.QuantityAvailable,
		QuantityRented:    part.QuantityRented,
	})
}

func (s *inventoryService) GetParts(ctx context.Context, page, limit int, partTypeID, search string) ([]PartResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	parts, total, err := s.partRepo.List(ctx, page, limit, partTypeID, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PartResponse, 0, len(parts))
	for i := range parts {
		res = append(res, mapPartToResponse(&parts[i]))
	}

	return res, total, nil
}

func (s *inventoryService) GetPart(ctx context.Context, id string) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, apperror.Validation("invalid part id: %s", id)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartResponse{}, apperror.NotFound("part not found: %s", id)
		}
		return PartResponse{}, fmt.Errorf("database error: %w", err)
	}

	return mapPartToResponse(part), nil
}

func (s *inventoryService) CreatePart(ctx context.Context, req CreatePartRequest) (PartResponse, error) {
	typeID, err := uuid.Parse(req.PartTypeID)
	if err != nil {
		return PartResponse{}, apperror.Validation("invalid part_type_id: %s", req.PartTypeID)
	}

	if _, err := s.partTypeRepo.FindByID(ctx, typeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartResponse{}, apperror.NotFound("part type not found: %s", req.PartTypeID)
		}
		return PartResponse{}, fmt.Errorf("database error: %w", err)
	}

	if _, err := s.partRepo.FindByCode(ctx, req.Code); err == nil {
		return PartResponse{}, apperror.Conflict("part code already exists: %s", req.Code)
	}

	// New stock starts fully available
	part := model.Part{
		PartTypeID:    typeID,
		Code:          req.Code,
		QuantityTotal: req.QuantityTotal,
		Notes:         req.Notes,
	}

	if err := s.partRepo.Create(ctx, &part); err != nil {
		return PartResponse{}, fmt.Errorf("failed to create part: %w", err)
	}

	return mapPartToResponse(&part), nil
}

func (s *inventoryService) UpdatePart(ctx context.Context, id string, req UpdatePartRequest) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, apperror.Validation("invalid part id: %s", id)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartResponse{}, apperror.NotFound("part not found: %s", id)
		}
		return PartResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.PartTypeID != nil {
		typeID, err := uuid.Parse(*req.PartTypeID)
		if err != nil {
			return PartResponse{}, apperror.Validation("invalid part_type_id: %s", *req.PartTypeID)
		}
		if _, err := s.partTypeRepo.FindByID(ctx, typeID); err != nil {
			return PartResponse{}, apperror.NotFound("part type not found: %s", *req.PartTypeID)
		}
		part.PartTypeID = typeID
	}
	if req.Code != nil && *req.Code != part.Code {
		if _, err := s.partRepo.FindByCode(ctx, *req.Code); err == nil {
			return PartResponse{}, apperror.Conflict("part code already exists: %s", *req.Code)
		}
		part.Code = *req.Code
	}
	if req.Notes != nil {
		part.Notes = *req.Notes
	}

	if err := s.partRepo.Update(ctx, part); err != nil {
		return PartResponse{}, fmt.Errorf("failed to update part: %w", err)
	}

	return mapPartToResponse(part), nil
}

func (s *inventoryService) DeletePart(ctx context.Context, id string) error {
	partID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid part id: %s", id)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("part not found: %s", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if part.QuantityRented > 0 {
		return apperror.State("part %s has %d units rented out and cannot be deleted", part.Code, part.QuantityRented)
	}

	return s.partRepo.Delete(ctx, partID)
}

// AdjustStock applies a manual correction to a part's total quantity. The
// delta is recorded as a ledger movement in the same transaction as the
// counter update; available stock absorbs the whole change since rented units
// are out with customers.
func (s *inventoryService) AdjustStock(ctx context.Context, actorID, id string, req AdjustStockRequest) (PartResponse, error) {
	partID, err := uuid.Parse(id)
	if err != nil {
		return PartResponse{}, apperror.Validation("invalid part id: %s", id)
	}
	if req.QuantityTotal == nil || *req.QuantityTotal < 0 {
		return PartResponse{}, apperror.Validation("quantity_total must be a non-negative integer")
	}
	newTotal := *req.QuantityTotal

	reason := req.Reason
	if reason == "" {
		reason = model.ReasonManualAdjustment
	}

	var adjusted *model.Part
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		part, err := s.partRepo.FindByIDForUpdate(txCtx, partID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("part not found: %s", id)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if newTotal < part.QuantityRented {
			return apperror.Validation("part %s: new quantity_total (%d) is below quantity_rented (%d)", part.Code, newTotal, part.QuantityRented)
		}

		delta := newTotal - part.QuantityTotal
		if delta != 0 {
			kind := model.MovementInbound
			if delta < 0 {
				kind = model.MovementOutbound
				delta = -delta
			}
			movement := &model.StockMovement{
				PartID:   part.ID,
				Kind:     kind,
				Quantity: delta,
				Reason:   reason,
				UserID:   actorUUID(actorID),
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		part.QuantityTotal = newTotal
		part.QuantityAvailable = newTotal - part.QuantityRented
		if err := s.partRepo.Update(txCtx, part); err != nil {
			return fmt.Errorf("failed to update part: %w", err)
		}

		adjusted = part
		return nil
	})

	if err != nil {
		return PartResponse{}, err
	}

	s.broadcastStock(adjusted)
	return mapPartToResponse(adjusted), nil
}

func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]PartResponse, error) {
	if threshold < 0 {
		return nil, apperror.Validation("threshold must be a non-negative integer")
	}

	parts, err := s.partRepo.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	res := make([]PartResponse, 0, len(parts))
	for i := range parts {
		res = append(res, mapPartToResponse(&parts[i]))
	}
	return res, nil
}

func (s *inventoryService) StockReport(ctx context.Context) (*model.StockReport, error) {
	return s.partRepo.StockReport(ctx)
}
