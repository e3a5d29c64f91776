package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReport aggregates part counters across the whole inventory
type StockReport struct {
	TotalParts        int64 `json:"total_parts"`
	QuantityTotal     int   `json:"quantity_total"`
	QuantityAvailable int   `json:"quantity_available"`
	QuantityRented    int   `json:"quantity_rented"`
	OutOfStock        int64 `json:"out_of_stock"`
}

// PartTypeRanking ranks a part type by how often it appears in rental lines
type PartTypeRanking struct {
	PartTypeID   string          `json:"part_type_id"`
	PartTypeName string          `json:"part_type_name"`
	TotalRentals int             `json:"total_rentals"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// PartTypeStats summarizes the catalog
type PartTypeStats struct {
	TotalTypes   int64             `json:"total_types"`
	AveragePrice decimal.Decimal   `json:"average_price"`
	TopRented    []PartTypeRanking `json:"top_rented"`
}

// StatusBreakdown groups rental totals by status within a report window
type StatusBreakdown struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// FinancialReport summarizes rental revenue over a trailing window
type FinancialReport struct {
	PeriodDays   int               `json:"period_days"`
	Since        time.Time         `json:"since"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalRentals int64             `json:"total_rentals"`
	ByStatus     []StatusBreakdown `json:"by_status"`
}

// MovementReport nets the ledger over a trailing window
type MovementReport struct {
	PeriodDays     int       `json:"period_days"`
	Since          time.Time `json:"since"`
	TotalInbound   int       `json:"total_inbound"`
	TotalOutbound  int       `json:"total_outbound"`
	Net            int       `json:"net"`
	TotalMovements int64     `json:"total_movements"`
}

// CustomerRentalHistory summarizes a customer's rental activity
type CustomerRentalHistory struct {
	TotalRentals  int64           `json:"total_rentals"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	ActiveRentals int64           `json:"active_rentals"`
	Rentals       []Rental        `json:"rentals"`
}
