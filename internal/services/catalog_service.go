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
	defaultServiceLimit = 50
	maxServiceLimit     = 100
	maxRatePerHour      = 300
)

const serviceColumns = `id, owner_member_id, title, description, category, rate_units_per_hour, active, created_at, updated_at`

// CreateServiceRequest is the payload for offering a new service.
type CreateServiceRequest struct {
	Title            string `json:"title" validate:"required,min=1,max=200"`
	Description      string `json:"description"`
	Category         string `json:"category" validate:"required,min=1,max=50"`
	RateUnitsPerHour int64  `json:"rate_units_per_hour" validate:"omitempty,min=1,max=300"`
	NewCategoryName  string `json:"new_category_name,omitempty" validate:"max=100"`
}

// CatalogService is the registry of offerable services and their categories.
type CatalogService struct {
	db           *sql.DB
	unitsPerHour int64
	audit        *audit.Logger
	log          *zap.Logger
	now          func() time.Time
	newID        func() uuid.UUID
}

func NewCatalogService(db *sql.DB, unitsPerHour int64, auditLogger *audit.Logger, log *zap.Logger) *CatalogService {
	return &CatalogService{
		db:           db,
		unitsPerHour: unitsPerHour,
		audit:        auditLogger,
		log:          log,
		now:          time.Now,
		newID:        uuid.New,
	}
}

func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, icon, created_at
		FROM sel_categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// EnsureCategory registers name unless it already exists. The unique
// constraint on name settles concurrent registrations.
func (s *CatalogService) EnsureCategory(ctx context.Context, q DBTX, name string) (string, error) {
	name = normalizeCategory(name)
	if name == "" {
		return "", ErrInvalidCategory
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO sel_categories (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`,
		s.newID(), name, s.now())
	if err != nil {
		return "", fmt.Errorf("ensure category %q: %w", name, err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.log.Info("[CATALOG] category registered", zap.String("category", name))
	}
	return name, nil
}

// CreateService offers a new service. Unknown categories are registered on
// the fly; the "proposition" category keeps the suggested name in the
// description for moderators.
func (s *CatalogService) CreateService(ctx context.Context, ownerID uuid.UUID, req CreateServiceRequest) (*models.Service, error) {
	rate := req.RateUnitsPerHour
	if rate == 0 {
		rate = s.unitsPerHour
	}
	if rate < 1 || rate > maxRatePerHour {
		return nil, fmt.Errorf("%w: rate must be between 1 and %d units per hour", ErrInvalidService, maxRatePerHour)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidService)
	}
	if normalizeCategory(req.Category) == "" {
		return nil, ErrInvalidCategory
	}

	now := s.now()
	svc := &models.Service{
		ID:               s.newID(),
		OwnerMemberID:    ownerID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Category:         normalizeCategory(req.Category),
		RateUnitsPerHour: rate,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	proposal := strings.TrimSpace(req.NewCategoryName)
	if svc.Category == models.ProposalCategory && proposal != "" {
		svc.Description = strings.TrimSpace(fmt.Sprintf("[PROPOSITION: %s] %s", proposal, req.Description))
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		category, err := s.EnsureCategory(ctx, tx, svc.Category)
		if err != nil {
			return err
		}
		svc.Category = category

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sel_services (`+serviceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			svc.ID, svc.OwnerMemberID, svc.Title, svc.Description, svc.Category,
			svc.RateUnitsPerHour, svc.Active, svc.CreatedAt, svc.UpdatedAt)
		if err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return ErrMemberNotFound
			}
			return fmt.Errorf("insert service: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogService(audit.EventServiceCreated, svc.ID, ownerID, svc.Category)
	return svc, nil
}

func scanService(row interface{ Scan(...any) error }) (*models.Service, error) {
	var svc models.Service
	err := row.Scan(&svc.ID, &svc.OwnerMemberID, &svc.Title, &svc.Description, &svc.Category,
		&svc.RateUnitsPerHour, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *CatalogService) queryServices(ctx context.Context, query string, args ...any) ([]*models.Service, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := []*models.Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

// ListAvailable returns active services offered by other members, newest
// first. An empty category means all categories.
func (s *CatalogService) ListAvailable(ctx context.Context, excludingMemberID uuid.UUID, category string, limit int) ([]*models.Service, error) {
	if limit <= 0 {
		limit = defaultServiceLimit
	}
	if limit > maxServiceLimit {
		limit = maxServiceLimit
	}

	query := `SELECT ` + serviceColumns + ` FROM sel_services WHERE active AND owner_member_id <> $1`
	args := []any{excludingMemberID}
	if category = normalizeCategory(category); category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	return s.queryServices(ctx, query, args...)
}

// ListOwned returns every service of ownerID, active or not.
func (s *CatalogService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*models.Service, error) {
	return s.queryServices(ctx, `
		SELECT `+serviceColumns+`
		FROM sel_services
		WHERE owner_member_id = $1
		ORDER BY created_at DESC`, ownerID)
}

func (s *CatalogService) CountActiveOwned(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM sel_services WHERE owner_member_id = $1 AND active`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}

// GetActive returns the service only while it can still be traded.
func (s *CatalogService) GetActive(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM sel_services WHERE id = $1 AND active`, serviceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("fetch service %s: %w", serviceID, err)
	}
	return svc, nil
}

// Deactivate withdraws a service from the catalog. Services are never
// deleted so past transactions keep their provenance.
func (s *CatalogService) Deactivate(ctx context.Context, serviceID, ownerID uuid.UUID) (*models.Service, error) {
	var (
		svc     *models.Service
		changed bool
	)
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		svc, err = scanService(tx.QueryRowContext(ctx,
			`SELECT `+serviceColumns+` FROM sel_services WHERE id = $1 FOR UPDATE`, serviceID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceUnavailable
		}
		if err != nil {
			return fmt.Errorf("fetch service %s: %w", serviceID, err)
		}
		if svc.OwnerMemberID != ownerID {
			return ErrUnauthorizedAction
		}
		if !svc.Active {
			return nil
		}

		svc.Active = false
		svc.UpdatedAt = s.now()
		_, err = tx.ExecContext(ctx,
			`UPDATE sel_services SET active = FALSE, updated_at = $1 WHERE id = $2`,
			svc.UpdatedAt, svc.ID)
		if err != nil {
			return fmt.Errorf("deactivate service %s: %w", serviceID, err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return svc, nil
	}

	s.audit.LogService(audit.EventServiceDeactivated, svc.ID, ownerID, svc.Title)
	return svc, nil
}

// QuoteUnits converts a duration in hours into units at the service's rate,
// rounding partial units up.
func (s *CatalogService) QuoteUnits(svc *models.Service, hours decimal.Decimal) (int64, error) {
	if !hours.IsPositive() {
		return 0, ErrInvalidUnits
	}
	units := hours.Mul(decimal.NewFromInt(svc.RateUnitsPerHour)).Ceil()
	if !units.IsInteger() || units.GreaterThan(decimal.NewFromInt(maxRatePerHour*24)) {
		return 0, ErrInvalidUnits
	}
	return units.IntPart(), nil
}
