package services

import (
	"errors"
	"fmt"

	"github.com/ecolehub/sel/internal/models"
)

var (
	ErrSelfTransfer        = errors.New("cannot create a transaction with yourself")
	ErrMemberNotFound      = errors.New("member not found")
	ErrServiceUnavailable  = errors.New("service not found or inactive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnauthorizedAction  = errors.New("forbidden")
	ErrInvalidUnits        = errors.New("invalid units")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrInvalidCategory     = errors.New("category name is required")
	ErrInvalidService      = errors.New("invalid service")
)

// BalanceLimitExceededError reports a transfer that would take a balance out
// of bounds. It carries the check that failed so callers can show both sides.
type BalanceLimitExceededError struct {
	Check TransferCheck
}

func (e *BalanceLimitExceededError) Error() string {
	return e.Check.Reason
}

// InvalidStateTransitionError is returned when approving or cancelling a
// transaction that already reached a terminal state.
type InvalidStateTransitionError struct {
	Status models.TransactionStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("already %s", e.Status)
}

// IsBalanceLimitExceeded reports whether err is, or wraps, a limit violation.
func IsBalanceLimitExceeded(err error) bool {
	var limitErr *BalanceLimitExceededError
	return errors.As(err, &limitErr)
}

// IsInvalidStateTransition reports whether err is, or wraps, a terminal-state violation.
func IsInvalidStateTransition(err error) bool {
	var stateErr *InvalidStateTransitionError
	return errors.As(err, &stateErr)
}
