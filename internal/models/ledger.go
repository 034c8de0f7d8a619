package models

import (
	"time"

	"github.com/google/uuid"
)

// Balance is a member's position in the exchange, in units (60 units = 1 hour).
type Balance struct {
	MemberID      uuid.UUID `json:"member_id" db:"member_id"`
	Balance       int64     `json:"balance" db:"balance"`
	TotalGiven    int64     `json:"total_given" db:"total_given"`
	TotalReceived int64     `json:"total_received" db:"total_received"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Limits bounds every balance and every single transfer.
type Limits struct {
	InitialBalance         int64 `json:"initial_balance"`
	MinBalance             int64 `json:"min_balance"`
	MaxBalance             int64 `json:"max_balance"`
	MaxUnitsPerTransaction int64 `json:"max_units_per_transaction"`
}

// DefaultLimits are the Belgian SEL rules: 2 hours of starting credit, -5h / +10h bounds.
func DefaultLimits() Limits {
	return Limits{
		InitialBalance:         120,
		MinBalance:             -300,
		MaxBalance:             600,
		MaxUnitsPerTransaction: 600,
	}
}
