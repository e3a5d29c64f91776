package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementKind enum constants
const (
	MovementInbound  = "inbound"
	MovementOutbound = "outbound"
)

// Canonical movement reasons. Reason is free text for manual entries; these
// are the values written by the rental lifecycle and stock adjustment paths.
const (
	ReasonRental           = "rental"
	ReasonRentalReturn     = "rental return"
	ReasonRentalCancelled  = "rental cancelled"
	ReasonManualAdjustment = "manual adjustment"
)

// StockMovement is an append-only ledger entry recording one inbound or
// outbound quantity change to a Part, with cause and actor. Rows are never
// updated or deleted; the ledger is the audit trail reconciling Part counters.
type StockMovement struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"part_id"`
	Part      *Part      `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE" json:"part,omitempty"`
	Kind      string     `gorm:"type:varchar(10);not null;index" json:"kind"` // inbound, outbound
	Quantity  int        `gorm:"type:int;not null" json:"quantity"`
	RentalID  *uuid.UUID `gorm:"type:uuid;index" json:"rental_id,omitempty"` // nil for manual adjustments
	Rental    *Rental    `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"-"`
	Reason    string     `gorm:"type:varchar(200);not null" json:"reason"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}
