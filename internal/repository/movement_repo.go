package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// MovementFilter narrows stock movement listings. Zero values mean no filter.
type MovementFilter struct {
	PartID   string
	RentalID string
	Kind     string
}

// StockMovementRepository is append-only: the ledger exposes no update or
// delete operations.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	List(ctx context.Context, page, limit int, filter MovementFilter) ([]model.StockMovement, int64, error)
	Report(ctx context.Context, since time.Time) (*model.MovementReport, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) List(ctx context.Context, page, limit int, filter MovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{})
	if filter.PartID != "" {
		db = db.Where("part_id = ?", filter.PartID)
	}
	if filter.RentalID != "" {
		db = db.Where("rental_id = ?", filter.RentalID)
	}
	if filter.Kind != "" {
		db = db.Where("kind = ?", filter.Kind)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Part").Preload("User").
		Order("created_at desc").
		Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func (r *stockMovementRepository) Report(ctx context.Context, since time.Time) (*model.MovementReport, error) {
	db := GetDB(ctx, r.db)

	report := model.MovementReport{Since: since}

	var sums struct {
		Inbound  int
		Outbound int
		Count    int64
	}
	if err := db.Model(&model.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE 0 END), 0) as inbound, COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE 0 END), 0) as outbound, COUNT(id) as count",
			model.MovementInbound, model.MovementOutbound).
		Where("created_at >= ?", since).
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	report.TotalInbound = sums.Inbound
	report.TotalOutbound = sums.Outbound
	report.Net = sums.Inbound - sums.Outbound
	report.TotalMovements = sums.Count

	return &report, nil
}
