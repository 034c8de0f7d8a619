package services

import (
	"fmt"

	"github.com/ecolehub/sel/internal/models"
)

const (
	ReasonDebtLimit   = "sender would exceed debt limit"
	ReasonCreditLimit = "recipient would exceed credit limit"
)

// BalanceProjection is a balance before and after a hypothetical transfer.
type BalanceProjection struct {
	Current int64 `json:"current"`
	After   int64 `json:"after"`
}

// TransferCheck is the outcome of CanTransfer.
type TransferCheck struct {
	OK     bool              `json:"ok"`
	Reason string            `json:"reason"`
	From   BalanceProjection `json:"from"`
	To     BalanceProjection `json:"to"`
	Units  int64             `json:"units"`
}

// Err returns nil for a feasible check and a *BalanceLimitExceededError otherwise.
func (c TransferCheck) Err() error {
	if c.OK {
		return nil
	}
	return &BalanceLimitExceededError{Check: c}
}

// CanTransfer decides whether moving units from a balance of fromBalance to a
// balance of toBalance keeps both inside limits. It has no side effects and is
// run at creation and again at approval.
func CanTransfer(fromBalance, toBalance, units int64, limits models.Limits) TransferCheck {
	check := TransferCheck{
		OK:    true,
		From:  BalanceProjection{Current: fromBalance, After: fromBalance - units},
		To:    BalanceProjection{Current: toBalance, After: toBalance + units},
		Units: units,
	}

	switch {
	case check.From.After < limits.MinBalance:
		check.OK = false
		check.Reason = fmt.Sprintf("%s: balance would become %d (limit %d)",
			ReasonDebtLimit, check.From.After, limits.MinBalance)
	case check.To.After > limits.MaxBalance:
		check.OK = false
		check.Reason = fmt.Sprintf("%s: balance would become %d (limit +%d)",
			ReasonCreditLimit, check.To.After, limits.MaxBalance)
	default:
		check.Reason = "transaction allowed"
	}
	return check
}
