package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// MemberDirectory answers whether a member exists. Profiles live outside
// the ledger.
type MemberDirectory interface {
	Exists(ctx context.Context, memberID uuid.UUID) (bool, error)
}

// SQLMemberDirectory reads the platform's members table.
type SQLMemberDirectory struct {
	db *sql.DB
}

func NewSQLMemberDirectory(db *sql.DB) *SQLMemberDirectory {
	return &SQLMemberDirectory{db: db}
}

func (d *SQLMemberDirectory) Exists(ctx context.Context, memberID uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("member lookup %s: %w", memberID, err)
	}
	return exists, nil
}
