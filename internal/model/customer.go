package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonType enum constants
const (
	PersonTypeIndividual   = "individual"
	PersonTypeOrganization = "organization"
)

// CustomerStatus enum constants
const (
	CustomerStatusActive     = "active"
	CustomerStatusDelinquent = "delinquent"
)

// Customer represents a client of the rental business (a person or a company)
type Customer struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(200);not null" json:"name"`
	PersonType string    `gorm:"type:varchar(20);not null;default:'individual'" json:"person_type"` // individual, organization
	TaxID      string    `gorm:"type:varchar(18);uniqueIndex;not null" json:"tax_id"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone      string    `gorm:"type:varchar(20);not null" json:"phone"`
	Address    string    `gorm:"type:text;not null" json:"address"`
	City       string    `gorm:"type:varchar(100);not null" json:"city"`
	State      string    `gorm:"type:varchar(2);not null" json:"state"`
	ZipCode    string    `gorm:"type:varchar(10);not null" json:"zip_code"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // active, delinquent
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
