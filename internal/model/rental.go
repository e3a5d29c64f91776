package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentalStatus constants. finished and cancelled are terminal.
const (
	RentalStatusPending   = "pending"
	RentalStatusActive    = "active"
	RentalStatusFinished  = "finished"
	RentalStatusCancelled = "cancelled"
)

// Rental is a contract between the business and a Customer covering one or
// more RentalItems over a date range.
type Rental struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalNumber int             `gorm:"uniqueIndex;not null" json:"rental_number"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer     *Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	DateStart    time.Time       `gorm:"type:date;not null" json:"date_start"`
	DateDue      time.Time       `gorm:"type:date;not null" json:"date_due"`
	DateReturned *time.Time      `gorm:"type:date" json:"date_returned,omitempty"`
	Status       string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	FinalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"final_amount"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`
	Items        []RentalItem    `gorm:"foreignKey:RentalID" json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeSave derives final_amount on every write; it is never accepted as
// caller input.
func (r *Rental) BeforeSave(tx *gorm.DB) error {
	r.FinalAmount = r.TotalAmount.Sub(r.Discount)
	return nil
}

// RentalItem binds a quantity of a specific Part to a Rental at a snapshotted
// line amount. At most one line per (rental, part) pair.
type RentalItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rental_part" json:"rental_id"`
	Rental     *Rental         `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"-"`
	PartID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rental_part;index" json:"part_id"`
	Part       *Part           `gorm:"foreignKey:PartID" json:"part,omitempty"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	LineAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_amount"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
}
