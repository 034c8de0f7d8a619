package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalCategory holds services whose owner suggested a category that
// does not exist yet.
const ProposalCategory = "proposition"

// DefaultCategories seeds the catalog vocabulary.
var DefaultCategories = []string{
	"garde",
	"devoirs",
	"transport",
	"cuisine",
	"jardinage",
	"informatique",
	"artisanat",
	"sport",
	"musique",
	"autre",
}

type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Icon        string    `json:"icon,omitempty" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Service is an offer in the exchange catalog.
type Service struct {
	ID               uuid.UUID `json:"id" db:"id"`
	OwnerMemberID    uuid.UUID `json:"owner_member_id" db:"owner_member_id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Category         string    `json:"category" db:"category"`
	RateUnitsPerHour int64     `json:"rate_units_per_hour" db:"rate_units_per_hour"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Dashboard summarises a member's exchange activity.
type Dashboard struct {
	Balance            *Balance       `json:"balance"`
	ActiveServiceCount int            `json:"active_services"`
	PendingCount       int            `json:"pending_transactions"`
	RecentTransactions []*Transaction `json:"recent_transactions"`
	AvailableServices  []*Service     `json:"available_services"`
}

// StatusStat is one row of the per-status transaction breakdown.
type StatusStat struct {
	Status       TransactionStatus `json:"status"`
	Count        int64             `json:"count"`
	AverageUnits float64           `json:"average_units"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type MonthlyStat struct {
	Month        time.Time `json:"month"`
	Transactions int64     `json:"transactions"`
}

// Analytics is the exchange-wide activity report.
type Analytics struct {
	TransactionStatus []StatusStat   `json:"transaction_status"`
	ServiceCategories []CategoryStat `json:"service_categories"`
	MonthlyTrends     []MonthlyStat  `json:"monthly_trends"`
	GeneratedAt       time.Time      `json:"timestamp"`
}
