package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusApproved  TransactionStatus = "approved"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusCancelled
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Transaction is a transfer request from a debtor (From) to the member who
// provided the service (To). Units are fixed at creation time.
type Transaction struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	FromMemberID uuid.UUID         `json:"from_member_id" db:"from_member_id"`
	ToMemberID   uuid.UUID         `json:"to_member_id" db:"to_member_id"`
	ServiceID    *uuid.UUID        `json:"service_id,omitempty" db:"service_id"`
	Units        int64             `json:"units" db:"units"`
	Description  string            `json:"description" db:"description"`
	Status       TransactionStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// IsParticipant reports whether memberID is the sender or the recipient.
func (t *Transaction) IsParticipant(memberID uuid.UUID) bool {
	return t.FromMemberID == memberID || t.ToMemberID == memberID
}
