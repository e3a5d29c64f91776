package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartType is a catalog entry describing a kind of rentable equipment and its
// rental price. The price is advisory: line items snapshot it at creation time.
type PartType struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	RentalUnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rental_unit_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Part is one trackable stock unit of a given PartType with quantity counters.
// quantity_total == quantity_available + quantity_rented must hold after every
// mutation; BeforeSave enforces it on every write path.
type Part struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartTypeID        uuid.UUID `gorm:"type:uuid;not null;index" json:"part_type_id"`
	PartType          *PartType `gorm:"foreignKey:PartTypeID;constraint:OnDelete:CASCADE" json:"part_type,omitempty"`
	Code              string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	QuantityTotal     int       `gorm:"type:int;not null;default:0" json:"quantity_total"`
	QuantityAvailable int       `gorm:"type:int;not null;default:0" json:"quantity_available"`
	QuantityRented    int       `gorm:"type:int;not null;default:0" json:"quantity_rented"`
	Notes             string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeSave recomputes quantity_available from total and rented on every
// write, so no call site can persist a Part that violates the accounting
// identity or carries a negative counter.
func (p *Part) BeforeSave(tx *gorm.DB) error {
	if p.QuantityTotal < 0 {
		return fmt.Errorf("part %s: quantity_total cannot be negative", p.Code)
	}
	if p.QuantityRented < 0 {
		return fmt.Errorf("part %s: quantity_rented cannot be negative", p.Code)
	}
	p.QuantityAvailable = p.QuantityTotal - p.QuantityRented
	if p.QuantityAvailable < 0 {
		return fmt.Errorf("part %s: quantity_rented (%d) exceeds quantity_total (%d)", p.Code, p.QuantityRented, p.QuantityTotal)
	}
	return nil
}
