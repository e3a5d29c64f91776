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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// localDate truncates t to midnight in its own location, so "today" follows
// the server clock rather than the UTC day boundary.
func localDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DTOs
type RentalItemRequest struct {
	PartID   string `json:"part_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

type CreateRentalRequest struct {
	RentalNumber int                 `json:"rental_number"` // 0 = assign next
	CustomerID   string              `json:"customer_id" binding:"required"`
	DateStart    string              `json:"date_start" binding:"required"`
	DateDue      string              `json:"date_due" binding:"required"`
	Status       string              `json:"status"` // pending or active, default active
	Discount     decimal.Decimal     `json:"discount"`
	Notes        string              `json:"notes"`
	Items        []RentalItemRequest `json:"items" binding:"omitempty,dive"`
}

type FinalizeRentalRequest struct {
	DateReturned string `json:"date_returned"` // YYYY-MM-DD, default today
}

type RentalService interface {
	GetRentals(ctx context.Context, page, limit int, status, customerID string) ([]model.Rental, int64, error)
	GetRental(ctx context.Context, id string) (*model.Rental, error)
	CreateRental(ctx context.Context, actorID string, req CreateRentalRequest) (*model.Rental, error)
	FinalizeRental(ctx context.Context, actorID, id string, req FinalizeRentalRequest) (*model.Rental, error)
	CancelRental(ctx context.Context, actorID, id string) (*model.Rental, error)
	GetRentalItems(ctx context.Context, page, limit int, filter repository.RentalItemFilter) ([]model.RentalItem, int64, error)
	GetActive(ctx context.Context) ([]model.Rental, error)
	GetOverdue(ctx context.Context) ([]model.Rental, error)
	FinancialReport(ctx context.Context, days int) (*model.FinancialReport, error)
}

type rentalService struct {
	rentalRepo   repository.RentalRepository
	partRepo     repository.PartRepository
	partTypeRepo repository.PartTypeRepository
	customerRepo repository.CustomerRepository
	movementRepo repository.StockMovementRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	partRepo repository.PartRepository,
	partTypeRepo repository.PartTypeRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.StockMovementRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		partRepo:     partRepo,
		partTypeRepo: partTypeRepo,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *rentalService) broadcastStock(part *model.Part) {
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

func (s *rentalService) GetRentals(ctx context.Context, page, limit int, status, customerID string) ([]model.Rental, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.rentalRepo.List(ctx, page, limit, status, customerID)
}

func (s *rentalService) GetRental(ctx context.Context, id string) (*model.Rental, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid rental id: %s", id)
	}

	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("rental not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rental, nil
}

// CreateRental creates the rental row and its line items, taking stock out of
// availability and writing one outbound ledger movement per item. The whole
// operation is a single transaction: a failed availability check on any item
// rolls back everything created before it.
func (s *rentalService) CreateRental(ctx context.Context, actorID string, req CreateRentalRequest) (*model.Rental, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperror.Validation("invalid customer_id: %s", req.CustomerID)
	}

	dateStart, err := time.Parse(dateLayout, req.DateStart)
	if err != nil {
		return nil, apperror.Validation("invalid date_start format, expected YYYY-MM-DD")
	}
	dateDue, err := time.Parse(dateLayout, req.DateDue)
	if err != nil {
		return nil, apperror.Validation("invalid date_due format, expected YYYY-MM-DD")
	}
	if dateDue.Before(dateStart) {
		return nil, apperror.Validation("date_due cannot be before date_start")
	}

	if req.Discount.IsNegative() {
		return nil, apperror.Validation("discount cannot be negative")
	}

	status := req.Status
	if status == "" {
		status = model.RentalStatusActive
	}
	if status != model.RentalStatusPending && status != model.RentalStatusActive {
		return nil, apperror.Validation("status must be pending or active on creation")
	}

	// A part may appear at most once per rental
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if seen[item.PartID] {
			return nil, apperror.Conflict("duplicate part in rental items: %s", item.PartID)
		}
		seen[item.PartID] = true
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("customer not found: %s", req.CustomerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	actor := actorUUID(actorID)
	var created *model.Rental
	var touched []*model.Part

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number := req.RentalNumber
		if number == 0 {
			next, err := s.rentalRepo.NextNumber(txCtx)
			if err != nil {
				return fmt.Errorf("failed to assign rental number: %w", err)
			}
			number = next
		} else if _, err := s.rentalRepo.FindByNumber(txCtx, number); err == nil {
			return apperror.Conflict("rental number already exists: %d", number)
		}

		rental := &model.Rental{
			RentalNumber: number,
			CustomerID:   customerID,
			DateStart:    dateStart,
			DateDue:      dateDue,
			Status:       status,
			Discount:     req.Discount,
			Notes:        req.Notes,
		}
		if err := s.rentalRepo.Create(txCtx, rental); err != nil {
			// Two concurrent creations can both read the same MAX(rental_number);
			// the unique index breaks the tie and the loser surfaces as a conflict.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict("rental number already exists: %d", number)
			}
			return fmt.Errorf("failed to create rental: %w", err)
		}

		total := decimal.Zero
		for _, itemReq := range req.Items {
			partID, parseErr := uuid.Parse(itemReq.PartID)
			if parseErr != nil {
				return apperror.Validation("invalid part_id: %s", itemReq.PartID)
			}

			part, findErr := s.partRepo.FindByIDForUpdate(txCtx, partID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperror.NotFound("part not found: %s", itemReq.PartID)
				}
				return fmt.Errorf("failed to find part %s: %w", itemReq.PartID, findErr)
			}

			if itemReq.Quantity > part.QuantityAvailable {
				shortfall := itemReq.Quantity - part.QuantityAvailable
				return apperror.InsufficientStock("part %s: requested %d but only %d available (short by %d)",
					part.Code, itemReq.Quantity, part.QuantityAvailable, shortfall)
			}

			partType, typeErr := s.partTypeRepo.FindByID(txCtx, part.PartTypeID)
			if typeErr != nil {
				return fmt.Errorf("failed to load part type for %s: %w", part.Code, typeErr)
			}

			// Price is snapshotted at creation time, never re-derived
			lineAmount := partType.RentalUnitPrice.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
			item := &model.RentalItem{
				RentalID:   rental.ID,
				PartID:     part.ID,
				Quantity:   itemReq.Quantity,
				LineAmount: lineAmount,
				Notes:      itemReq.Notes,
			}
			if err := s.rentalRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create rental item: %w", err)
			}

			part.QuantityRented += itemReq.Quantity
			part.QuantityAvailable -= itemReq.Quantity
			if err := s.partRepo.Update(txCtx, part); err != nil {
				return fmt.Errorf("failed to update part stock: %w", err)
			}

			movement := &model.StockMovement{
				PartID:   part.ID,
				Kind:     model.MovementOutbound,
				Quantity: itemReq.Quantity,
				RentalID: &rental.ID,
				Reason:   model.ReasonRental,
				UserID:   actor,
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}

			total = total.Add(lineAmount)
			touched = append(touched, part)
		}

		rental.TotalAmount = total
		if err := s.rentalRepo.Save(txCtx, rental); err != nil {
			return fmt.Errorf("failed to save rental total: %w", err)
		}

		created = rental
		return nil
	})

	if err != nil {
		return nil, err
	}

	for _, part := range touched {
		s.broadcastStock(part)
	}
	return created, nil
}

// FinalizeRental returns every item of an active rental to available stock,
// writing one inbound ledger movement per item. active → finished is one-way.
func (s *rentalService) FinalizeRental(ctx context.Context, actorID, id string, req FinalizeRentalRequest) (*model.Rental, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid rental id: %s", id)
	}

	dateReturned := localDate(time.Now())
	if req.DateReturned != "" {
		parsed, err := time.Parse(dateLayout, req.DateReturned)
		if err != nil {
			return nil, apperror.Validation("invalid date_returned format, expected YYYY-MM-DD")
		}
		dateReturned = parsed
	}

	actor := actorUUID(actorID)
	var finalized *model.Rental
	var touched []*model.Part

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rental, err := s.rentalRepo.FindByID(txCtx, rentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("rental not found: %s", id)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if rental.Status != model.RentalStatusActive {
			return apperror.State("only active rentals can be finalized (rental %d is %s)", rental.RentalNumber, rental.Status)
		}

		parts, err := s.returnStock(txCtx, rental, actor, model.ReasonRentalReturn)
		if err != nil {
			return err
		}
		touched = parts

		rental.Status = model.RentalStatusFinished
		rental.DateReturned = &dateReturned
		if err := s.rentalRepo.Save(txCtx, rental); err != nil {
			return fmt.Errorf("failed to finalize rental: %w", err)
		}

		finalized = rental
		return nil
	})

	if err != nil {
		return nil, err
	}

	for _, part := range touched {
		s.broadcastStock(part)
	}
	return finalized, nil
}

// CancelRental moves a pending or active rental to cancelled, releasing any
// stock it held. cancelled is terminal.
func (s *rentalService) CancelRental(ctx context.Context, actorID, id string) (*model.Rental, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid rental id: %s", id)
	}

	actor := actorUUID(actorID)
	var cancelled *model.Rental
	var touched []*model.Part

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rental, err := s.rentalRepo.FindByID(txCtx, rentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("rental not found: %s", id)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if rental.Status != model.RentalStatusPending && rental.Status != model.RentalStatusActive {
			return apperror.State("only pending or active rentals can be cancelled (rental %d is %s)", rental.RentalNumber, rental.Status)
		}

		parts, err := s.returnStock(txCtx, rental, actor, model.ReasonRentalCancelled)
		if err != nil {
			return err
		}
		touched = parts

		rental.Status = model.RentalStatusCancelled
		if err := s.rentalRepo.Save(txCtx, rental); err != nil {
			return fmt.Errorf("failed to cancel rental: %w", err)
		}

		cancelled = rental
		return nil
	})

	if err != nil {
		return nil, err
	}

	for _, part := range touched {
		s.broadcastStock(part)
	}
	return cancelled, nil
}

// returnStock credits every item of the rental back to availability with one
// inbound movement each. Runs inside the caller's transaction.
func (s *rentalService) returnStock(txCtx context.Context, rental *model.Rental, actor *uuid.UUID, reason string) ([]*model.Part, error) {
	var touched []*model.Part
	for _, item := range rental.Items {
		part, err := s.partRepo.FindByIDForUpdate(txCtx, item.PartID)
		if err != nil {
			return nil, fmt.Errorf("failed to find part %s: %w", item.PartID, err)
		}

		if part.QuantityRented < item.Quantity {
			return nil, apperror.State("part %s: rented quantity (%d) is below the %d units being returned", part.Code, part.QuantityRented, item.Quantity)
		}

		part.QuantityRented -= item.Quantity
		part.QuantityAvailable += item.Quantity
		if err := s.partRepo.Update(txCtx, part); err != nil {
			return nil, fmt.Errorf("failed to update part stock: %w", err)
		}

		movement := &model.StockMovement{
			PartID:   part.ID,
			Kind:     model.MovementInbound,
			Quantity: item.Quantity,
			RentalID: &rental.ID,
			Reason:   reason,
			UserID:   actor,
		}
		if err := s.movementRepo.Create(txCtx, movement); err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}

		touched = append(touched, part)
	}
	return touched, nil
}

// GetRentalItems lists rental lines across contracts. Lines are created and
// mutated only through the rental lifecycle, never standalone, so stock
// counters and the ledger stay in step.
func (s *rentalService) GetRentalItems(ctx context.Context, page, limit int, filter repository.RentalItemFilter) ([]model.RentalItem, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.rentalRepo.ListItems(ctx, page, limit, filter)
}

func (s *rentalService) GetActive(ctx context.Context) ([]model.Rental, error) {
	return s.rentalRepo.FindActive(ctx)
}

func (s *rentalService) GetOverdue(ctx context.Context) ([]model.Rental, error) {
	today := localDate(time.Now())
	return s.rentalRepo.FindOverdue(ctx, today)
}

func (s *rentalService) FinancialReport(ctx context.Context, days int) (*model.FinancialReport, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	report, err := s.rentalRepo.FinancialReport(ctx, since)
	if err != nil {
		return nil, err
	}
	report.PeriodDays = days
	return report, nil
}
