package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the closure directly so service logic can be tested
// without a database.
type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockPartRepo struct {
	mock.Mock
}

func (m *mockPartRepo) Create(ctx context.Context, part *model.Part) error {
	return m.Called(ctx, part).Error(0)
}

func (m *mockPartRepo) Update(ctx context.Context, part *model.Part) error {
	return m.Called(ctx, part).Error(0)
}

func (m *mockPartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *mockPartRepo) FindByCode(ctx context.Context, code string) (*model.Part, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *mockPartRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *mockPartRepo) List(ctx context.Context, page, limit int, partTypeID, search string) ([]model.Part, int64, error) {
	args := m.Called(ctx, page, limit, partTypeID, search)
	var parts []model.Part
	if args.Get(0) != nil {
		parts = args.Get(0).([]model.Part)
	}
	return parts, args.Get(1).(int64), args.Error(2)
}

func (m *mockPartRepo) LowStock(ctx context.Context, threshold int) ([]model.Part, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *mockPartRepo) StockReport(ctx context.Context) (*model.StockReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockReport), args.Error(1)
}

type mockPartTypeRepo struct {
	mock.Mock
}

func (m *mockPartTypeRepo) Create(ctx context.Context, partType *model.PartType) error {
	return m.Called(ctx, partType).Error(0)
}

func (m *mockPartTypeRepo) Update(ctx context.Context, partType *model.PartType) error {
	return m.Called(ctx, partType).Error(0)
}

func (m *mockPartTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPartTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PartType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PartType), args.Error(1)
}

func (m *mockPartTypeRepo) List(ctx context.Context, page, limit int, search string) ([]model.PartType, int64, error) {
	args := m.Called(ctx, page, limit, search)
	var types []model.PartType
	if args.Get(0) != nil {
		types = args.Get(0).([]model.PartType)
	}
	return types, args.Get(1).(int64), args.Error(2)
}

func (m *mockPartTypeRepo) Statistics(ctx context.Context, topLimit int) (*model.PartTypeStats, error) {
	args := m.Called(ctx, topLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PartTypeStats), args.Error(1)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindByTaxID(ctx context.Context, taxID string) (*model.Customer, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *mockCustomerRepo) List(ctx context.Context, page, limit int, status, personType, search string) ([]model.Customer, int64, error) {
	args := m.Called(ctx, page, limit, status, personType, search)
	var customers []model.Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]model.Customer)
	}
	return customers, args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomerRepo) Delinquent(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) Create(ctx context.Context, rental *model.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *mockRentalRepo) Save(ctx context.Context, rental *model.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *mockRentalRepo) CreateItem(ctx context.Context, item *model.RentalItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRentalRepo) ListItems(ctx context.Context, page, limit int, filter repository.RentalItemFilter) ([]model.RentalItem, int64, error) {
	args := m.Called(ctx, page, limit, filter)
	var items []model.RentalItem
	if args.Get(0) != nil {
		items = args.Get(0).([]model.RentalItem)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockRentalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rental), args.Error(1)
}

func (m *mockRentalRepo) FindByNumber(ctx context.Context, number int) (*model.Rental, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rental), args.Error(1)
}

func (m *mockRentalRepo) NextNumber(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRentalRepo) List(ctx context.Context, page, limit int, status, customerID string) ([]model.Rental, int64, error) {
	args := m.Called(ctx, page, limit, status, customerID)
	var rentals []model.Rental
	if args.Get(0) != nil {
		rentals = args.Get(0).([]model.Rental)
	}
	return rentals, args.Get(1).(int64), args.Error(2)
}

func (m *mockRentalRepo) FindActive(ctx context.Context) ([]model.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rental), args.Error(1)
}

func (m *mockRentalRepo) FindOverdue(ctx context.Context, asOf time.Time) ([]model.Rental, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rental), args.Error(1)
}

func (m *mockRentalRepo) FinancialReport(ctx context.Context, since time.Time) (*model.FinancialReport, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FinancialReport), args.Error(1)
}

func (m *mockRentalRepo) HistoryByCustomer(ctx context.Context, customerID uuid.UUID, lastN int) (*model.CustomerRentalHistory, error) {
	args := m.Called(ctx, customerID, lastN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerRentalHistory), args.Error(1)
}

type mockMovementRepo struct {
	mock.Mock
}

func (m *mockMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *mockMovementRepo) List(ctx context.Context, page, limit int, filter repository.MovementFilter) ([]model.StockMovement, int64, error) {
	args := m.Called(ctx, page, limit, filter)
	var movements []model.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]model.StockMovement)
	}
	return movements, args.Get(1).(int64), args.Error(2)
}

func (m *mockMovementRepo) Report(ctx context.Context, since time.Time) (*model.MovementReport, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MovementReport), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
