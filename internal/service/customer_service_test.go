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
	"gorm.io/gorm"
)

func newCustomerFixture(t *testing.T) (*mockCustomerRepo, *mockRentalRepo, CustomerService) {
	t.Helper()
	customerRepo := new(mockCustomerRepo)
	rentalRepo := new(mockRentalRepo)
	svc := NewCustomerService(customerRepo, rentalRepo)
	return customerRepo, rentalRepo, svc
}

func validCustomerRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		Name:       "Acme Construction",
		PersonType: model.PersonTypeOrganization,
		TaxID:      "12.345.678/0001-95",
		Phone:      "555-0100",
		Address:    "100 Industrial Ave",
		City:       "Springfield",
		State:      "SP",
		ZipCode:    "01000-000",
	}
}

func TestCreateCustomer(t *testing.T) {
	customerRepo, _, svc := newCustomerFixture(t)

	customerRepo.On("FindByTaxID", mock.Anything, mock.AnythingOfType("string")).Return(nil, gorm.ErrRecordNotFound)
	customerRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).Return(nil)

	customer, err := svc.CreateCustomer(context.Background(), validCustomerRequest())
	require.NoError(t, err)

	// New customers always start active regardless of input
	assert.Equal(t, model.CustomerStatusActive, customer.Status)
	assert.Equal(t, model.PersonTypeOrganization, customer.PersonType)
}

func TestCreateCustomerTaxIDDigits(t *testing.T) {
	_, _, svc := newCustomerFixture(t)

	for _, taxID := range []string{"123", "123.456.789-0", "123456789012345"} {
		req := validCustomerRequest()
		req.TaxID = taxID
		_, err := svc.CreateCustomer(context.Background(), req)
		require.Error(t, err, "tax id %q", taxID)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "tax id %q", taxID)
	}

	// 11 digits (individual) is accepted with any formatting
	customerRepo, _, svc2 := newCustomerFixture(t)
	customerRepo.On("FindByTaxID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	customerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validCustomerRequest()
	req.PersonType = model.PersonTypeIndividual
	req.TaxID = "123.456.789-09"
	_, err := svc2.CreateCustomer(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateCustomerTaxIDConflict(t *testing.T) {
	customerRepo, _, svc := newCustomerFixture(t)

	req := validCustomerRequest()
	customerRepo.On("FindByTaxID", mock.Anything, req.TaxID).Return(&model.Customer{TaxID: req.TaxID}, nil)

	_, err := svc.CreateCustomer(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	customerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCustomerInvalidPersonType(t *testing.T) {
	_, _, svc := newCustomerFixture(t)

	req := validCustomerRequest()
	req.PersonType = "company"
	_, err := svc.CreateCustomer(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUpdateCustomerStatus(t *testing.T) {
	customerRepo, _, svc := newCustomerFixture(t)

	customerID := uuid.New()
	customer := &model.Customer{ID: customerID, Status: model.CustomerStatusActive}
	customerRepo.On("FindByID", mock.Anything, customerID).Return(customer, nil)
	customerRepo.On("Update", mock.Anything, customer).Return(nil)

	status := model.CustomerStatusDelinquent
	updated, err := svc.UpdateCustomer(context.Background(), customerID.String(), UpdateCustomerRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.CustomerStatusDelinquent, updated.Status)

	bad := "blocked"
	_, err = svc.UpdateCustomer(context.Background(), customerID.String(), UpdateCustomerRequest{Status: &bad})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRentalHistory(t *testing.T) {
	customerRepo, rentalRepo, svc := newCustomerFixture(t)

	customerID := uuid.New()
	customerRepo.On("FindByID", mock.Anything, customerID).Return(&model.Customer{ID: customerID}, nil)
	rentalRepo.On("HistoryByCustomer", mock.Anything, customerID, 10).Return(&model.CustomerRentalHistory{TotalRentals: 3}, nil)

	history, err := svc.RentalHistory(context.Background(), customerID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3), history.TotalRentals)
}

func TestRentalHistoryCustomerNotFound(t *testing.T) {
	customerRepo, _, svc := newCustomerFixture(t)

	customerID := uuid.New()
	customerRepo.On("FindByID", mock.Anything, customerID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.RentalHistory(context.Background(), customerID.String())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
