package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecolehub/sel/internal/services"
	"go.uber.org/zap"
)

// statusFor maps ledger errors onto HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	var (
		limitErr *services.BalanceLimitExceededError
		stateErr *services.InvalidStateTransitionError
	)
	switch {
	case errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrInvalidUnits),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidService):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrServiceUnavailable),
		errors.Is(err, services.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorizedAction):
		return http.StatusForbidden
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.As(err, &limitErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// sendServiceError writes err with its mapped status. Internal failures are
// logged and hidden from the client.
func sendServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("[HTTP] request failed", zap.Error(err))
		SendErrorResponse(w, "Internal server error", status, nil)
		return
	}

	resp := ErrorResponse{Error: err.Error()}
	var limitErr *services.BalanceLimitExceededError
	if errors.As(err, &limitErr) {
		check := limitErr.Check
		resp.Details = map[string]string{
			"from_balance_after": strconv.FormatInt(check.From.After, 10),
			"to_balance_after":   strconv.FormatInt(check.To.After, 10),
			"units":              strconv.FormatInt(check.Units, 10),
		}
	}
	writeJSON(w, status, resp)
}
