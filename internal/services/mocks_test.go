package services

import (
	"context"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecolehub/sel/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMemberDirectory struct {
	mock.Mock
}

func (m *MockMemberDirectory) Exists(ctx context.Context, memberID uuid.UUID) (bool, error) {
	args := m.Called(memberID)
	return args.Bool(0), args.Error(1)
}

var (
	// alice sorts before bob, so alice's balance row is always locked first.
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	carol = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
)

const (
	fetchBalanceSQL = `SELECT member_id, balance, total_given, total_received, updated_at FROM sel_balances WHERE member_id = \$1`
	lockBalanceSQL  = fetchBalanceSQL + ` FOR UPDATE`
	debitSQL        = `UPDATE sel_balances SET balance = balance - \$1, total_given = total_given \+ \$1`
	creditSQL       = `UPDATE sel_balances SET balance = balance \+ \$1, total_received = total_received \+ \$1`
	lockTxSQL       = `SELECT id, from_member_id, to_member_id, service_id, units, description, status, created_at, completed_at, updated_at FROM sel_transactions WHERE id = \$1 FOR UPDATE`
	transitionSQL   = `UPDATE sel_transactions SET status = \$1, completed_at = \$2, updated_at = \$2 WHERE id = \$3 AND status = \$4`
)

func balanceRows(memberID uuid.UUID, balance, given, received int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"member_id", "balance", "total_given", "total_received", "updated_at"}).
		AddRow(memberID.String(), balance, given, received, fixedNow)
}

func emptyBalanceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"member_id", "balance", "total_given", "total_received", "updated_at"})
}

var transactionCols = []string{"id", "from_member_id", "to_member_id", "service_id", "units", "description", "status", "created_at", "completed_at", "updated_at"}

func transactionRows(txs ...*models.Transaction) *sqlmock.Rows {
	rows := sqlmock.NewRows(transactionCols)
	for _, tx := range txs {
		var serviceID, completedAt any
		if tx.ServiceID != nil {
			serviceID = tx.ServiceID.String()
		}
		if tx.CompletedAt != nil {
			completedAt = *tx.CompletedAt
		}
		rows.AddRow(tx.ID.String(), tx.FromMemberID.String(), tx.ToMemberID.String(), serviceID,
			tx.Units, tx.Description, string(tx.Status), tx.CreatedAt, completedAt, tx.UpdatedAt)
	}
	return rows
}

var serviceCols = []string{"id", "owner_member_id", "title", "description", "category", "rate_units_per_hour", "active", "created_at", "updated_at"}

func serviceRows(svcs ...*models.Service) *sqlmock.Rows {
	rows := sqlmock.NewRows(serviceCols)
	for _, s := range svcs {
		rows.AddRow(s.ID.String(), s.OwnerMemberID.String(), s.Title, s.Description, s.Category,
			s.RateUnitsPerHour, s.Active, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}
