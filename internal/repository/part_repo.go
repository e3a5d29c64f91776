package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	Update(ctx context.Context, part *model.Part) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindByCode(ctx context.Context, code string) (*model.Part, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error)
	List(ctx context.Context, page, limit int, partTypeID, search string) ([]model.Part, int64, error)
	LowStock(ctx context.Context, threshold int) ([]model.Part, error)
	StockReport(ctx context.Context) (*model.StockReport, error)
}

type partRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(ctx context.Context, part *model.Part) error {
	return GetDB(ctx, r.db).Create(part).Error
}

func (r *partRepository) Update(ctx context.Context, part *model.Part) error {
	return GetDB(ctx, r.db).Save(part).Error
}

func (r *partRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Part{}).Error
}

func (r *partRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).Preload("PartType").First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) FindByCode(ctx context.Context, code string) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindByIDForUpdate takes a row-level lock so concurrent availability checks
// and decrements on the same Part serialize inside their transactions.
func (r *partRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) List(ctx context.Context, page, limit int, partTypeID, search string) ([]model.Part, int64, error) {
	var parts []model.Part
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Part{})
	if partTypeID != "" {
		db = db.Where("part_type_id = ?", partTypeID)
	}
	if search != "" {
		db = db.Where("code ILIKE ? OR notes ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("PartType").Order("code asc").Offset(offset).Limit(limit).Find(&parts).Error; err != nil {
		return nil, 0, err
	}

	return parts, total, nil
}

func (r *partRepository) LowStock(ctx context.Context, threshold int) ([]model.Part, error) {
	var parts []model.Part
	if err := GetDB(ctx, r.db).Preload("PartType").
		Where("quantity_available <= ?", threshold).
		Order("quantity_available asc, code asc").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) StockReport(ctx context.Context) (*model.StockReport, error) {
	db := GetDB(ctx, r.db)

	var report model.StockReport
	if err := db.Model(&model.Part{}).Count(&report.TotalParts).Error; err != nil {
		return nil, err
	}

	var sums struct {
		Total     int
		Available int
		Rented    int
	}
	if err := db.Model(&model.Part{}).
		Select("COALESCE(SUM(quantity_total), 0) as total, COALESCE(SUM(quantity_available), 0) as available, COALESCE(SUM(quantity_rented), 0) as rented").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	report.QuantityTotal = sums.Total
	report.QuantityAvailable = sums.Available
	report.QuantityRented = sums.Rented

	if err := db.Model(&model.Part{}).
		Where("quantity_available = 0").
		Count(&report.OutOfStock).Error; err != nil {
		return nil, err
	}

	return &report, nil
}
