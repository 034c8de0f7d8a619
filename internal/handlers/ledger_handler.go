package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecolehub/sel/internal/middleware"
	"github.com/ecolehub/sel/internal/models"
	"github.com/ecolehub/sel/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger is the transaction workflow the handler drives.
type Ledger interface {
	Create(ctx context.Context, fromID uuid.UUID, req services.CreateTransactionRequest) (*models.Transaction, error)
	Approve(ctx context.Context, transactionID, approverID uuid.UUID) (*models.Transaction, error)
	Cancel(ctx context.Context, transactionID, cancellerID uuid.UUID) (*models.Transaction, error)
	Get(ctx context.Context, transactionID, memberID uuid.UUID) (*models.Transaction, error)
	ListForMember(ctx context.Context, memberID uuid.UUID, status *models.TransactionStatus, limit int) ([]*models.Transaction, error)
	Dashboard(ctx context.Context, memberID uuid.UUID) (*models.Dashboard, error)
}

// Balances exposes a member's position and the rules bounding it.
type Balances interface {
	GetOrCreate(ctx context.Context, memberID uuid.UUID) (*models.Balance, error)
	Limits() models.Limits
}

// BalanceResponse is a balance together with the bounds it lives in.
type BalanceResponse struct {
	Balance *models.Balance `json:"balance"`
	Limits  models.Limits   `json:"limits"`
}

type LedgerHandler struct {
	ledger    Ledger
	balances  Balances
	validator *ValidationHelper
	log       *zap.Logger
}

func NewLedgerHandler(ledger Ledger, balances Balances, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledger,
		balances:  balances,
		validator: NewValidationHelper(),
		log:       log,
	}
}

func requireMember(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	memberID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
	}
	return memberID, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		SendErrorResponse(w, "Invalid "+param, http.StatusBadRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		SendErrorResponse(w, "limit must be a positive integer", http.StatusBadRequest, nil)
		return 0, false
	}
	return limit, true
}

// GetBalance returns the caller's balance
// @Summary Get balance
// @Description Return the caller's balance, opening it with the initial grant on first access
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sel/balance [get]
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}

	balance, err := h.balances.GetOrCreate(r.Context(), memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance, Limits: h.balances.Limits()})
}

// CreateTransaction requests a payment for a service
// @Summary Create transaction
// @Description Record a pending transfer from the caller to the service provider
// @Tags sel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateTransactionRequest true "Transaction request"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /sel/transactions [post]
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}

	var req services.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tx, err := h.ledger.Create(r.Context(), memberID, req)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// ApproveTransaction settles a pending transaction
// @Summary Approve transaction
// @Description The recipient confirms the service was provided; balances move atomically
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sel/transactions/{txId}/approve [put]
func (h *LedgerHandler) ApproveTransaction(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	txID, ok := pathUUID(w, r, "txId")
	if !ok {
		return
	}

	tx, err := h.ledger.Approve(r.Context(), txID, memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// CancelTransaction abandons a pending transaction
// @Summary Cancel transaction
// @Description Either participant cancels a pending transaction; balances are untouched
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sel/transactions/{txId}/cancel [put]
func (h *LedgerHandler) CancelTransaction(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	txID, ok := pathUUID(w, r, "txId")
	if !ok {
		return
	}

	tx, err := h.ledger.Cancel(r.Context(), txID, memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// GetTransaction returns one transaction to a participant
// @Summary Get transaction
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sel/transactions/{txId} [get]
func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	txID, ok := pathUUID(w, r, "txId")
	if !ok {
		return
	}

	tx, err := h.ledger.Get(r.Context(), txID, memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// ListTransactions lists the caller's transactions
// @Summary List transactions
// @Description Transactions where the caller is sender or recipient, newest first
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or cancelled"
// @Param limit query int false "Maximum results (default 50, max 100)"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Router /sel/transactions [get]
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	var status *models.TransactionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TransactionStatus(raw)
		if !s.Valid() {
			SendErrorResponse(w, "Invalid status", http.StatusBadRequest, nil)
			return
		}
		status = &s
	}

	transactions, err := h.ledger.ListForMember(r.Context(), memberID, status, limit)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// GetDashboard summarises the caller's activity
// @Summary Dashboard
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Dashboard
// @Failure 401 {object} ErrorResponse
// @Router /sel/dashboard [get]
func (h *LedgerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	memberID, ok := requireMember(w, r)
	if !ok {
		return
	}

	dashboard, err := h.ledger.Dashboard(r.Context(), memberID)
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
