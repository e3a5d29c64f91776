package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartTypeRepository interface {
	Create(ctx context.Context, partType *model.PartType) error
	Update(ctx context.Context, partType *model.PartType) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PartType, error)
	List(ctx context.Context, page, limit int, search string) ([]model.PartType, int64, error)
	Statistics(ctx context.Context, topLimit int) (*model.PartTypeStats, error)
}

type partTypeRepository struct {
	db *gorm.DB
}

func NewPartTypeRepository(db *gorm.DB) PartTypeRepository {
	return &partTypeRepository{db: db}
}

func (r *partTypeRepository) Create(ctx context.Context, partType *model.PartType) error {
	return GetDB(ctx, r.db).Create(partType).Error
}

func (r *partTypeRepository) Update(ctx context.Context, partType *model.PartType) error {
	return GetDB(ctx, r.db).Save(partType).Error
}

func (r *partTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PartType{}).Error
}

func (r *partTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PartType, error) {
	var partType model.PartType
	if err := GetDB(ctx, r.db).First(&partType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partType, nil
}

func (r *partTypeRepository) List(ctx context.Context, page, limit int, search string) ([]model.PartType, int64, error) {
	var partTypes []model.PartType
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PartType{})
	if search != "" {
		db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&partTypes).Error; err != nil {
		return nil, 0, err
	}

	return partTypes, total, nil
}

func (r *partTypeRepository) Statistics(ctx context.Context, topLimit int) (*model.PartTypeStats, error) {
	db := GetDB(ctx, r.db)

	var stats model.PartTypeStats
	if err := db.Model(&model.PartType{}).Count(&stats.TotalTypes).Error; err != nil {
		return nil, err
	}

	var avg struct {
		Value string
	}
	if err := db.Model(&model.PartType{}).
		Select("COALESCE(CAST(AVG(rental_unit_price) AS TEXT), '0') as value").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(avg.Value)
	if err != nil {
		return nil, err
	}
	stats.AveragePrice = price.Round(2)

	var rankings []model.PartTypeRanking
	if err := db.Table("rental_items").
		Select("part_types.id as part_type_id, part_types.name as part_type_name, COUNT(rental_items.id) as total_rentals, COALESCE(SUM(rental_items.line_amount), 0) as total_value").
		Joins("JOIN parts ON parts.id = rental_items.part_id").
		Joins("JOIN part_types ON part_types.id = parts.part_type_id").
		Group("part_types.id, part_types.name").
		Order("total_rentals DESC").
		Limit(topLimit).
		Scan(&rankings).Error; err != nil {
		return nil, err
	}
	stats.TopRented = rankings

	return &stats, nil
}
