package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentalItemFilter narrows rental line listings. Zero values mean no filter.
type RentalItemFilter struct {
	RentalID string
	PartID   string
}

type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) error
	Save(ctx context.Context, rental *model.Rental) error
	CreateItem(ctx context.Context, item *model.RentalItem) error
	ListItems(ctx context.Context, page, limit int, filter RentalItemFilter) ([]model.RentalItem, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	FindByNumber(ctx context.Context, number int) (*model.Rental, error)
	NextNumber(ctx context.Context) (int, error)
	List(ctx context.Context, page, limit int, status, customerID string) ([]model.Rental, int64, error)
	FindActive(ctx context.Context) ([]model.Rental, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]model.Rental, error)
	FinancialReport(ctx context.Context, since time.Time) (*model.FinancialReport, error)
	HistoryByCustomer(ctx context.Context, customerID uuid.UUID, lastN int) (*model.CustomerRentalHistory, error)
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Create(rental).Error
}

func (r *rentalRepository) Save(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Save(rental).Error
}

func (r *rentalRepository) CreateItem(ctx context.Context, item *model.RentalItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *rentalRepository) ListItems(ctx context.Context, page, limit int, filter RentalItemFilter) ([]model.RentalItem, int64, error) {
	var items []model.RentalItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.RentalItem{})
	if filter.RentalID != "" {
		db = db.Where("rental_id = ?", filter.RentalID)
	}
	if filter.PartID != "" {
		db = db.Where("part_id = ?", filter.PartID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Part").Preload("Part.PartType").
		Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *rentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	var rental model.Rental
	if err := GetDB(ctx, r.db).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Part").
		First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) FindByNumber(ctx context.Context, number int) (*model.Rental, error) {
	var rental model.Rental
	if err := GetDB(ctx, r.db).Where("rental_number = ?", number).First(&rental).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// NextNumber picks the next sequential rental number. Called inside the
// creation transaction so the unique index resolves ties.
func (r *rentalRepository) NextNumber(ctx context.Context) (int, error) {
	var max struct {
		Number int
	}
	if err := GetDB(ctx, r.db).Model(&model.Rental{}).
		Select("COALESCE(MAX(rental_number), 0) as number").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max.Number + 1, nil
}

func (r *rentalRepository) List(ctx context.Context, page, limit int, status, customerID string) ([]model.Rental, int64, error) {
	var rentals []model.Rental
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Rental{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if customerID != "" {
		db = db.Where("customer_id = ?", customerID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Customer").Preload("Items").
		Order("date_start desc, rental_number desc").
		Offset(offset).Limit(limit).Find(&rentals).Error; err != nil {
		return nil, 0, err
	}

	return rentals, total, nil
}

func (r *rentalRepository) FindActive(ctx context.Context) ([]model.Rental, error) {
	var rentals []model.Rental
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Items").
		Where("status = ?", model.RentalStatusActive).
		Order("date_start desc, rental_number desc").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]model.Rental, error) {
	var rentals []model.Rental
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Items").
		Where("status = ? AND date_due < ?", model.RentalStatusActive, asOf).
		Order("date_due asc").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) FinancialReport(ctx context.Context, since time.Time) (*model.FinancialReport, error) {
	db := GetDB(ctx, r.db)

	var report model.FinancialReport
	report.Since = since

	var revenue struct {
		Value string
		Count int64
	}
	if err := db.Model(&model.Rental{}).
		Select("COALESCE(CAST(SUM(final_amount) AS TEXT), '0') as value, COUNT(id) as count").
		Where("date_start >= ?", since).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(revenue.Value)
	if err != nil {
		return nil, err
	}
	report.TotalRevenue = total
	report.TotalRentals = revenue.Count

	var rows []struct {
		Status string
		Count  int
		Amount string
	}
	if err := db.Model(&model.Rental{}).
		Select("status, COUNT(id) as count, COALESCE(CAST(SUM(final_amount) AS TEXT), '0') as amount").
		Where("date_start >= ?", since).
		Group("status").
		Order("status asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, err
		}
		report.ByStatus = append(report.ByStatus, model.StatusBreakdown{
			Status: row.Status,
			Count:  row.Count,
			Amount: amount,
		})
	}

	return &report, nil
}

func (r *rentalRepository) HistoryByCustomer(ctx context.Context, customerID uuid.UUID, lastN int) (*model.CustomerRentalHistory, error) {
	db := GetDB(ctx, r.db)

	var history model.CustomerRentalHistory

	base := db.Model(&model.Rental{}).Where("customer_id = ?", customerID)
	if err := base.Session(&gorm.Session{}).Count(&history.TotalRentals).Error; err != nil {
		return nil, err
	}

	var spent struct {
		Value string
	}
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(CAST(SUM(final_amount) AS TEXT), '0') as value").
		Scan(&spent).Error; err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(spent.Value)
	if err != nil {
		return nil, err
	}
	history.TotalSpent = total

	if err := base.Session(&gorm.Session{}).
		Where("status = ?", model.RentalStatusActive).
		Count(&history.ActiveRentals).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("date_start desc, rental_number desc").
		Limit(lastN).
		Find(&history.Rentals).Error; err != nil {
		return nil, err
	}

	return &history, nil
}
