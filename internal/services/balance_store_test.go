package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecolehub/sel/internal/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBalanceStore(t *testing.T) (*BalanceStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewBalanceStore(db, models.DefaultLimits(), zap.NewNop())
	store.now = func() time.Time { return fixedNow }
	return store, mock
}

func TestBalanceStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing balance", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).
			WillReturnRows(balanceRows(alice, 70, 50, 0))

		b, err := store.GetOrCreate(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(70), b.Balance)
		assert.Equal(t, int64(50), b.TotalGiven)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first access opens with the initial grant", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).WillReturnRows(emptyBalanceRows())
		mock.ExpectExec("INSERT INTO sel_balances").
			WithArgs(alice, int64(120), fixedNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).
			WillReturnRows(balanceRows(alice, 120, 0, 0))

		b, err := store.GetOrCreate(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(120), b.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent creator wins, row is re-read", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).WillReturnRows(emptyBalanceRows())
		mock.ExpectExec("INSERT INTO sel_balances .* ON CONFLICT \\(member_id\\) DO NOTHING").
			WithArgs(alice, int64(120), fixedNow).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).
			WillReturnRows(balanceRows(alice, 120, 0, 0))

		b, err := store.GetOrCreate(ctx, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(120), b.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown member", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).WillReturnRows(emptyBalanceRows())
		mock.ExpectExec("INSERT INTO sel_balances").
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

		_, err := store.GetOrCreate(ctx, alice)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		mock.ExpectQuery(fetchBalanceSQL).WithArgs(alice).WillReturnError(errors.New("connection refused"))

		_, err := store.GetOrCreate(ctx, alice)
		assert.Error(t, err)
		assert.False(t, IsBalanceLimitExceeded(err))
	})
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func TestBalanceStore_ApplyTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves exactly the units", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))
		mock.ExpectExec(debitSQL).WithArgs(int64(50), fixedNow, alice, int64(-300)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(creditSQL).WithArgs(int64(50), fixedNow, bob, int64(600)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		check, err := store.ApplyTransfer(ctx, tx, alice, bob, 50)
		assert.NoError(t, err)
		assert.True(t, check.OK)
		assert.Equal(t, int64(70), check.From.After)
		assert.Equal(t, int64(170), check.To.After)
		assert.Equal(t, check.From.Current+check.To.Current, check.From.After+check.To.After)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locks in member id order whatever the direction", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))
		mock.ExpectExec(debitSQL).WithArgs(int64(30), fixedNow, bob, int64(-300)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(creditSQL).WithArgs(int64(30), fixedNow, alice, int64(600)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		check, err := store.ApplyTransfer(ctx, tx, bob, alice, 30)
		assert.NoError(t, err)
		assert.Equal(t, int64(90), check.From.After)
		assert.Equal(t, int64(150), check.To.After)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("opens a missing balance under lock", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(emptyBalanceRows())
		mock.ExpectExec("INSERT INTO sel_balances").WithArgs(bob, int64(120), fixedNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))
		mock.ExpectExec(debitSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(creditSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := store.ApplyTransfer(ctx, tx, alice, bob, 10)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("recipient at 550 takes 40, a second 40 is refused", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 550, 0, 430))
		mock.ExpectExec(debitSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(creditSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		check, err := store.ApplyTransfer(ctx, tx, alice, bob, 40)
		assert.NoError(t, err)
		assert.Equal(t, int64(590), check.To.After)

		mock.ExpectCommit()
		require.NoError(t, tx.Commit())

		// The second approval sees the committed 590 once it gets the lock.
		tx = beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 590, 0, 470))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(carol).WillReturnRows(balanceRows(carol, 120, 0, 0))

		_, err = store.ApplyTransfer(ctx, tx, carol, bob, 40)
		assert.True(t, IsBalanceLimitExceeded(err))
		assert.Contains(t, err.Error(), ReasonCreditLimit)
	})

	t.Run("credit guard rejecting the write is a limit error", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))
		mock.ExpectExec(debitSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(creditSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.ApplyTransfer(ctx, tx, alice, bob, 50)
		assert.True(t, IsBalanceLimitExceeded(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check constraint violation is a limit error", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, 120, 0, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))
		mock.ExpectExec(debitSQL).WillReturnError(&pq.Error{Code: pqCheckViolation})

		_, err := store.ApplyTransfer(ctx, tx, alice, bob, 50)
		assert.True(t, IsBalanceLimitExceeded(err))
	})

	t.Run("sender over debt limit touches nothing", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		mock.ExpectQuery(lockBalanceSQL).WithArgs(alice).WillReturnRows(balanceRows(alice, -290, 410, 0))
		mock.ExpectQuery(lockBalanceSQL).WithArgs(bob).WillReturnRows(balanceRows(bob, 120, 0, 0))

		check, err := store.ApplyTransfer(ctx, tx, alice, bob, 20)
		assert.True(t, IsBalanceLimitExceeded(err))
		assert.False(t, check.OK)
		assert.Equal(t, int64(-310), check.From.After)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("self transfer", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		_, err := store.ApplyTransfer(ctx, tx, alice, alice, 20)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("non-positive units", func(t *testing.T) {
		store, mock := newTestBalanceStore(t)
		tx := beginTx(t, store.db, mock)
		_, err := store.ApplyTransfer(ctx, tx, alice, bob, 0)
		assert.ErrorIs(t, err, ErrInvalidUnits)
	})
}
