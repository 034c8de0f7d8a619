package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecolehub/sel/internal/audit"
	"github.com/ecolehub/sel/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 100
	dashboardRecentLimit    = 10
	dashboardServiceLimit   = 20
)

const transactionColumns = `id, from_member_id, to_member_id, service_id, units, description, status, created_at, completed_at, updated_at`

// CreateTransactionRequest asks ToMemberID's service to be paid by the caller.
// Units may be left at zero when Hours and ServiceID are given; the catalog
// then quotes them from the service rate.
type CreateTransactionRequest struct {
	ToMemberID  uuid.UUID        `json:"to_member_id" validate:"required"`
	ServiceID   *uuid.UUID       `json:"service_id,omitempty"`
	Units       int64            `json:"units" validate:"min=0"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
	Description string           `json:"description" validate:"max=1000"`
}

// LedgerService drives transactions through pending -> approved | cancelled.
// Balances only move on approval.
type LedgerService struct {
	db        *sql.DB
	balances  *BalanceStore
	catalog   *CatalogService
	members   MemberDirectory
	limiter   *RateLimiter
	audit     *audit.Logger
	log       *zap.Logger
	retries   int
	retryBase time.Duration
	now       func() time.Time
	newID     func() uuid.UUID
}

// LedgerOptions tunes approval retries on serialization conflicts.
type LedgerOptions struct {
	ApproveRetries int
	RetryBaseDelay time.Duration
}

func NewLedgerService(
	db *sql.DB,
	balances *BalanceStore,
	catalog *CatalogService,
	members MemberDirectory,
	limiter *RateLimiter,
	auditLogger *audit.Logger,
	log *zap.Logger,
	opts LedgerOptions,
) *LedgerService {
	return &LedgerService{
		db:        db,
		balances:  balances,
		catalog:   catalog,
		members:   members,
		limiter:   limiter,
		audit:     auditLogger,
		log:       log,
		retries:   opts.ApproveRetries,
		retryBase: opts.RetryBaseDelay,
		now:       time.Now,
		newID:     uuid.New,
	}
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var (
		t           models.Transaction
		serviceID   uuid.NullUUID
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.FromMemberID, &t.ToMemberID, &serviceID, &t.Units,
		&t.Description, &t.Status, &t.CreatedAt, &completedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if serviceID.Valid {
		id := serviceID.UUID
		t.ServiceID = &id
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return &t, nil
}

func (s *LedgerService) requireMember(ctx context.Context, memberID uuid.UUID) error {
	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMemberNotFound
	}
	return nil
}

// Create records a pending transaction after checking that it could be
// approved against today's balances. No balance is touched.
func (s *LedgerService) Create(ctx context.Context, fromID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.create(ctx, fromID, req)
	if err != nil {
		if IsBalanceLimitExceeded(err) || errors.Is(err, ErrRateLimited) {
			s.audit.LogRejection(uuid.Nil, fromID, err)
		}
		return nil, err
	}

	s.limiter.Record(ctx, fromID)
	s.audit.LogTransfer(audit.EventTransactionRequested, tx.ID, tx.FromMemberID, tx.ToMemberID, tx.Units, fromID)
	s.log.Info("[LEDGER] transaction requested",
		zap.String("transaction_id", tx.ID.String()),
		zap.Int64("units", tx.Units))
	return tx, nil
}

func (s *LedgerService) create(ctx context.Context, fromID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error) {
	if fromID == req.ToMemberID {
		return nil, ErrSelfTransfer
	}
	if err := s.limiter.Check(ctx, fromID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, fromID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, req.ToMemberID); err != nil {
		return nil, err
	}

	units := req.Units
	if req.ServiceID != nil {
		svc, err := s.catalog.GetActive(ctx, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		if units == 0 && req.Hours != nil {
			if units, err = s.catalog.QuoteUnits(svc, *req.Hours); err != nil {
				return nil, err
			}
		}
	}

	limits := s.balances.Limits()
	if units < 1 || units > limits.MaxUnitsPerTransaction {
		return nil, ErrInvalidUnits
	}

	fromBal, err := s.balances.GetOrCreate(ctx, fromID)
	if err != nil {
		return nil, err
	}
	toBal, err := s.balances.GetOrCreate(ctx, req.ToMemberID)
	if err != nil {
		return nil, err
	}
	if err := CanTransfer(fromBal.Balance, toBal.Balance, units, limits).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	tx := &models.Transaction{
		ID:           s.newID(),
		FromMemberID: fromID,
		ToMemberID:   req.ToMemberID,
		ServiceID:    req.ServiceID,
		Units:        units,
		Description:  strings.TrimSpace(req.Description),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var serviceID uuid.NullUUID
	if tx.ServiceID != nil {
		serviceID = uuid.NullUUID{UUID: *tx.ServiceID, Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sel_transactions (id, from_member_id, to_member_id, service_id, units, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tx.ID, tx.FromMemberID, tx.ToMemberID, serviceID, tx.Units, tx.Description,
		tx.Status, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// Approve settles a pending transaction. Only the recipient may approve. The
// transfer is re-checked on locked balances, so two approvals racing for the
// same member cannot both pass a bound that only one of them fits.
func (s *LedgerService) Approve(ctx context.Context, transactionID, approverID uuid.UUID) (*models.Transaction, error) {
	var (
		tx  *models.Transaction
		err error
	)
	for attempt := 0; ; attempt++ {
		tx, err = s.approveOnce(ctx, transactionID, approverID)
		if err == nil || !isRetryable(err) || attempt >= s.retries {
			break
		}

		delay := retryDelay(s.retryBase, attempt)
		s.log.Warn("[LEDGER] approval conflict, retrying",
			zap.String("transaction_id", transactionID.String()),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
	if err != nil {
		if IsBalanceLimitExceeded(err) {
			s.audit.LogRejection(transactionID, approverID, err)
		}
		return nil, err
	}

	s.audit.LogTransfer(audit.EventTransactionApproved, tx.ID, tx.FromMemberID, tx.ToMemberID, tx.Units, approverID)
	s.log.Info("[LEDGER] transaction approved",
		zap.String("transaction_id", tx.ID.String()),
		zap.Int64("units", tx.Units))
	return tx, nil
}

func (s *LedgerService) approveOnce(ctx context.Context, transactionID, approverID uuid.UUID) (*models.Transaction, error) {
	var tx *models.Transaction
	err := withTx(ctx, s.db, func(dbTx *sql.Tx) error {
		var err error
		tx, err = s.lockTransaction(ctx, dbTx, transactionID)
		if err != nil {
			return err
		}
		if tx.ToMemberID != approverID {
			return ErrUnauthorizedAction
		}
		if tx.Status != models.StatusPending {
			return &InvalidStateTransitionError{Status: tx.Status}
		}

		if _, err := s.balances.ApplyTransfer(ctx, dbTx, tx.FromMemberID, tx.ToMemberID, tx.Units); err != nil {
			return err
		}

		return s.transition(ctx, dbTx, tx, models.StatusApproved)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Cancel abandons a pending transaction. Either participant may cancel.
func (s *LedgerService) Cancel(ctx context.Context, transactionID, cancellerID uuid.UUID) (*models.Transaction, error) {
	var tx *models.Transaction
	err := withTx(ctx, s.db, func(dbTx *sql.Tx) error {
		var err error
		tx, err = s.lockTransaction(ctx, dbTx, transactionID)
		if err != nil {
			return err
		}
		if !tx.IsParticipant(cancellerID) {
			return ErrUnauthorizedAction
		}
		if tx.Status != models.StatusPending {
			return &InvalidStateTransitionError{Status: tx.Status}
		}
		return s.transition(ctx, dbTx, tx, models.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogTransfer(audit.EventTransactionCancelled, tx.ID, tx.FromMemberID, tx.ToMemberID, tx.Units, cancellerID)
	s.log.Info("[LEDGER] transaction cancelled", zap.String("transaction_id", tx.ID.String()))
	return tx, nil
}

func (s *LedgerService) lockTransaction(ctx context.Context, dbTx *sql.Tx, transactionID uuid.UUID) (*models.Transaction, error) {
	tx, err := scanTransaction(dbTx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM sel_transactions WHERE id = $1 FOR UPDATE`, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock transaction %s: %w", transactionID, err)
	}
	return tx, nil
}

// transition moves a locked pending transaction to a terminal status.
func (s *LedgerService) transition(ctx context.Context, dbTx *sql.Tx, tx *models.Transaction, status models.TransactionStatus) error {
	now := s.now()
	result, err := dbTx.ExecContext(ctx, `
		UPDATE sel_transactions
		SET status = $1, completed_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		status, now, tx.ID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	if n, err := result.RowsAffected(); err != nil || n != 1 {
		return fmt.Errorf("update transaction %s: no pending row", tx.ID)
	}

	tx.Status = status
	tx.CompletedAt = &now
	tx.UpdatedAt = now
	return nil
}

// Get returns a transaction to one of its participants.
func (s *LedgerService) Get(ctx context.Context, transactionID, memberID uuid.UUID) (*models.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM sel_transactions WHERE id = $1`, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", transactionID, err)
	}
	if !tx.IsParticipant(memberID) {
		return nil, ErrUnauthorizedAction
	}
	return tx, nil
}

// ListForMember returns the member's transactions on either side, newest first.
func (s *LedgerService) ListForMember(ctx context.Context, memberID uuid.UUID, status *models.TransactionStatus, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	query := `SELECT ` + transactionColumns + ` FROM sel_transactions WHERE (from_member_id = $1 OR to_member_id = $1)`
	args := []any{memberID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *LedgerService) countPending(ctx context.Context, memberID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(id) FROM sel_transactions
		WHERE (from_member_id = $1 OR to_member_id = $1) AND status = $2`,
		memberID, models.StatusPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending transactions: %w", err)
	}
	return count, nil
}

// Dashboard gathers the member's balance and activity in one call.
func (s *LedgerService) Dashboard(ctx context.Context, memberID uuid.UUID) (*models.Dashboard, error) {
	balance, err := s.balances.GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, err
	}

	activeServices, err := s.catalog.CountActiveOwned(ctx, memberID)
	if err != nil {
		return nil, err
	}

	pending, err := s.countPending(ctx, memberID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ListForMember(ctx, memberID, nil, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}

	available, err := s.catalog.ListAvailable(ctx, memberID, "", dashboardServiceLimit)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Balance:            balance,
		ActiveServiceCount: activeServices,
		PendingCount:       pending,
		RecentTransactions: recent,
		AvailableServices:  available,
	}, nil
}
