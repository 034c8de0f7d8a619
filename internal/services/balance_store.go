package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecolehub/sel/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const balanceColumns = `member_id, balance, total_given, total_received, updated_at`

// BalanceStore owns one balance row per member and is the only writer of
// those rows.
type BalanceStore struct {
	db     *sql.DB
	limits models.Limits
	log    *zap.Logger
	now    func() time.Time
}

func NewBalanceStore(db *sql.DB, limits models.Limits, log *zap.Logger) *BalanceStore {
	return &BalanceStore{
		db:     db,
		limits: limits,
		log:    log,
		now:    time.Now,
	}
}

func (s *BalanceStore) Limits() models.Limits {
	return s.limits
}

// GetOrCreate returns the member's balance, creating it with the initial
// grant on first access.
func (s *BalanceStore) GetOrCreate(ctx context.Context, memberID uuid.UUID) (*models.Balance, error) {
	return s.getOrCreate(ctx, s.db, memberID)
}

func (s *BalanceStore) getOrCreate(ctx context.Context, q DBTX, memberID uuid.UUID) (*models.Balance, error) {
	b, err := s.fetch(ctx, q, memberID, false)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch balance %s: %w", memberID, err)
	}

	if err := s.create(ctx, q, memberID); err != nil {
		return nil, err
	}

	b, err = s.fetch(ctx, q, memberID, false)
	if err != nil {
		return nil, fmt.Errorf("fetch balance %s: %w", memberID, err)
	}
	return b, nil
}

// create inserts the opening row. A concurrent creator wins silently through
// the primary key; the caller re-reads either way.
func (s *BalanceStore) create(ctx context.Context, q DBTX, memberID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sel_balances (member_id, balance, total_given, total_received, updated_at)
		VALUES ($1, $2, 0, 0, $3)
		ON CONFLICT (member_id) DO NOTHING`,
		memberID, s.limits.InitialBalance, s.now())
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrMemberNotFound
		}
		return fmt.Errorf("create balance %s: %w", memberID, err)
	}

	s.log.Debug("[BALANCE] opened", zap.String("member_id", memberID.String()),
		zap.Int64("balance", s.limits.InitialBalance))
	return nil
}

func (s *BalanceStore) fetch(ctx context.Context, q DBTX, memberID uuid.UUID, forUpdate bool) (*models.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM sel_balances WHERE member_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var b models.Balance
	err := q.QueryRowContext(ctx, query, memberID).
		Scan(&b.MemberID, &b.Balance, &b.TotalGiven, &b.TotalReceived, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// lock row-locks the member's balance, opening it first if needed.
func (s *BalanceStore) lock(ctx context.Context, tx *sql.Tx, memberID uuid.UUID) (*models.Balance, error) {
	b, err := s.fetch(ctx, tx, memberID, true)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock balance %s: %w", memberID, err)
	}

	if err := s.create(ctx, tx, memberID); err != nil {
		return nil, err
	}

	b, err = s.fetch(ctx, tx, memberID, true)
	if err != nil {
		return nil, fmt.Errorf("lock balance %s: %w", memberID, err)
	}
	return b, nil
}

// ApplyTransfer moves units from one member to another inside tx. Both rows
// are locked in member id order, the transfer is re-checked against the
// locked values, and each write is guarded by its own bound so a violation
// can never be written. On error the caller must roll tx back.
func (s *BalanceStore) ApplyTransfer(ctx context.Context, tx *sql.Tx, fromID, toID uuid.UUID, units int64) (TransferCheck, error) {
	if fromID == toID {
		return TransferCheck{}, ErrSelfTransfer
	}
	if units <= 0 {
		return TransferCheck{}, ErrInvalidUnits
	}

	// Lock accounts in consistent order to prevent deadlocks
	first, second := fromID, toID
	if first.String() > second.String() {
		first, second = second, first
	}

	firstBal, err := s.lock(ctx, tx, first)
	if err != nil {
		return TransferCheck{}, err
	}
	secondBal, err := s.lock(ctx, tx, second)
	if err != nil {
		return TransferCheck{}, err
	}

	fromBal, toBal := firstBal, secondBal
	if first != fromID {
		fromBal, toBal = secondBal, firstBal
	}

	check := CanTransfer(fromBal.Balance, toBal.Balance, units, s.limits)
	if err := check.Err(); err != nil {
		return check, err
	}

	now := s.now()
	if err := s.debit(ctx, tx, fromID, units, now); err != nil {
		return check, limitError(err, check)
	}
	if err := s.credit(ctx, tx, toID, units, now); err != nil {
		return check, limitError(err, check)
	}

	return check, nil
}

var errGuardRejected = errors.New("balance guard rejected update")

func (s *BalanceStore) debit(ctx context.Context, tx *sql.Tx, memberID uuid.UUID, units int64, now time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE sel_balances
		SET balance = balance - $1, total_given = total_given + $1, updated_at = $2
		WHERE member_id = $3 AND balance - $1 >= $4`,
		units, now, memberID, s.limits.MinBalance)
	return guarded(result, err)
}

func (s *BalanceStore) credit(ctx context.Context, tx *sql.Tx, memberID uuid.UUID, units int64, now time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE sel_balances
		SET balance = balance + $1, total_received = total_received + $1, updated_at = $2
		WHERE member_id = $3 AND balance + $1 <= $4`,
		units, now, memberID, s.limits.MaxBalance)
	return guarded(result, err)
}

func guarded(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected != 1 {
		return errGuardRejected
	}
	return nil
}

// limitError folds a rejected guard or a CHECK violation into the limit
// error callers expect; anything else is a storage failure.
func limitError(err error, check TransferCheck) error {
	if errors.Is(err, errGuardRejected) || pqCode(err) == pqCheckViolation {
		check.OK = false
		if check.Reason == "" || check.Reason == "transaction allowed" {
			check.Reason = "balance changed concurrently: transfer would exceed limits"
		}
		return &BalanceLimitExceededError{Check: check}
	}
	return fmt.Errorf("apply transfer: %w", err)
}
