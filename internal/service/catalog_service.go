package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreatePartTypeRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	RentalUnitPrice decimal.Decimal `json:"rental_unit_price" binding:"required"`
}

type UpdatePartTypeRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	RentalUnitPrice *decimal.Decimal `json:"rental_unit_price"`
}

type CatalogService interface {
	GetPartTypes(ctx context.Context, page, limit int, search string) ([]model.PartType, int64, error)
	CreatePartType(ctx context.Context, req CreatePartTypeRequest) (*model.PartType, error)
	UpdatePartType(ctx context.Context, id string, req UpdatePartTypeRequest) (*model.PartType, error)
	DeletePartType(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*model.PartTypeStats, error)
}

type catalogService struct {
	partTypeRepo repository.PartTypeRepository
}

func NewCatalogService(partTypeRepo repository.PartTypeRepository) CatalogService {
	return &catalogService{partTypeRepo: partTypeRepo}
}

func (s *catalogService) GetPartTypes(ctx context.Context, page, limit int, search string) ([]model.PartType, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.partTypeRepo.List(ctx, page, limit, search)
}

func (s *catalogService) CreatePartType(ctx context.Context, req CreatePartTypeRequest) (*model.PartType, error) {
	if !req.RentalUnitPrice.IsPositive() {
		return nil, apperror.Validation("rental_unit_price must be greater than zero")
	}

	partType := &model.PartType{
		Name:            req.Name,
		Description:     req.Description,
		RentalUnitPrice: req.RentalUnitPrice,
	}
	if err := s.partTypeRepo.Create(ctx, partType); err != nil {
		return nil, fmt.Errorf("failed to create part type: %w", err)
	}
	return partType, nil
}

func (s *catalogService) UpdatePartType(ctx context.Context, id string, req UpdatePartTypeRequest) (*model.PartType, error) {
	typeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid part type id: %s", id)
	}

	partType, err := s.partTypeRepo.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("part type not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		partType.Name = *req.Name
	}
	if req.Description != nil {
		partType.Description = *req.Description
	}
	if req.RentalUnitPrice != nil {
		if !req.RentalUnitPrice.IsPositive() {
			return nil, apperror.Validation("rental_unit_price must be greater than zero")
		}
		partType.RentalUnitPrice = *req.RentalUnitPrice
	}

	if err := s.partTypeRepo.Update(ctx, partType); err != nil {
		return nil, fmt.Errorf("failed to update part type: %w", err)
	}
	return partType, nil
}

func (s *catalogService) DeletePartType(ctx context.Context, id string) error {
	typeID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid part type id: %s", id)
	}

	if _, err := s.partTypeRepo.FindByID(ctx, typeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("part type not found: %s", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Deleting a part type cascades to its parts via the FK
	return s.partTypeRepo.Delete(ctx, typeID)
}

func (s *catalogService) Statistics(ctx context.Context) (*model.PartTypeStats, error) {
	return s.partTypeRepo.Statistics(ctx, 5)
}
