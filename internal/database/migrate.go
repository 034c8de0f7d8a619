package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(db *sql.DB, dbName string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		return nil, fmt.Errorf("failed to set up migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to set up migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending schema migration.
func MigrateUp(db *sql.DB, dbName string, log *zap.Logger) error {
	m, err := newMigrator(db, dbName)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("[DATABASE] schema up to date")
			return nil
		}
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			return fmt.Errorf("migration failed: dirty database version %d", dirtyErr.Version)
		}
		return fmt.Errorf("failed to run migration(up): %w", err)
	}

	version, _, _ := m.Version()
	log.Info("[DATABASE] migrations applied", zap.Uint("version", version))
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(db *sql.DB, dbName string, steps int, log *zap.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, err := newMigrator(db, dbName)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(down): %w", err)
	}

	log.Info("[DATABASE] migrations rolled back", zap.Int("steps", steps))
	return nil
}
