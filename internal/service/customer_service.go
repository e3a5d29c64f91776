package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required"`
	PersonType string `json:"person_type" binding:"required"`
	TaxID      string `json:"tax_id" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required,len=2"`
	ZipCode    string `json:"zip_code" binding:"required"`
	Notes      string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name       *string `json:"name"`
	PersonType *string `json:"person_type"`
	TaxID      *string `json:"tax_id"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	ZipCode    *string `json:"zip_code"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
}

type CustomerService interface {
	GetCustomers(ctx context.Context, page, limit int, status, personType, search string) ([]model.Customer, int64, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetDelinquent(ctx context.Context) ([]model.Customer, error)
	RentalHistory(ctx context.Context, id string) (*model.CustomerRentalHistory, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	rentalRepo   repository.RentalRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, rentalRepo repository.RentalRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, rentalRepo: rentalRepo}
}

var validPersonTypes = map[string]bool{
	model.PersonTypeIndividual:   true,
	model.PersonTypeOrganization: true,
}

var validCustomerStatuses = map[string]bool{
	model.CustomerStatusActive:     true,
	model.CustomerStatusDelinquent: true,
}

// validateTaxID accepts formatted or bare registration numbers: 11 digits for
// individuals, 14 for organizations.
func validateTaxID(taxID string) error {
	digits := 0
	for _, r := range taxID {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits != 11 && digits != 14 {
		return apperror.Validation("tax_id must contain 11 digits (individual) or 14 digits (organization)")
	}
	return nil
}

func (s *customerService) GetCustomers(ctx context.Context, page, limit int, status, personType, search string) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.customerRepo.List(ctx, page, limit, status, personType, search)
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid customer id: %s", id)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*model.Customer, error) {
	if !validPersonTypes[req.PersonType] {
		return nil, apperror.Validation("person_type must be individual or organization")
	}
	if err := validateTaxID(req.TaxID); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByTaxID(ctx, req.TaxID); err == nil {
		return nil, apperror.Conflict("tax_id already registered: %s", req.TaxID)
	}

	customer := &model.Customer{
		Name:       req.Name,
		PersonType: req.PersonType,
		TaxID:      req.TaxID,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Status:     model.CustomerStatusActive,
		Notes:      req.Notes,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*model.Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid customer id: %s", id)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.PersonType != nil {
		if !validPersonTypes[*req.PersonType] {
			return nil, apperror.Validation("person_type must be individual or organization")
		}
		customer.PersonType = *req.PersonType
	}
	if req.Status != nil {
		if !validCustomerStatuses[*req.Status] {
			return nil, apperror.Validation("status must be active or delinquent")
		}
		customer.Status = *req.Status
	}
	if req.TaxID != nil && *req.TaxID != customer.TaxID {
		if err := validateTaxID(*req.TaxID); err != nil {
			return nil, err
		}
		if _, err := s.customerRepo.FindByTaxID(ctx, *req.TaxID); err == nil {
			return nil, apperror.Conflict("tax_id already registered: %s", *req.TaxID)
		}
		customer.TaxID = *req.TaxID
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		if len(*req.State) != 2 {
			return nil, apperror.Validation("state must be a 2-letter code")
		}
		customer.State = *req.State
	}
	if req.ZipCode != nil {
		customer.ZipCode = *req.ZipCode
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid customer id: %s", id)
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("customer not found: %s", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.customerRepo.Delete(ctx, customerID)
}

func (s *customerService) GetDelinquent(ctx context.Context) ([]model.Customer, error) {
	return s.customerRepo.Delinquent(ctx)
}

func (s *customerService) RentalHistory(ctx context.Context, id string) (*model.CustomerRentalHistory, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid customer id: %s", id)
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.rentalRepo.HistoryByCustomer(ctx, customerID, 10)
}
