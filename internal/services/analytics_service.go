package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecolehub/sel/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const analyticsCacheKey = "sel:analytics"

// AnalyticsService aggregates exchange activity. Reports are cached in Redis
// when a client is configured.
type AnalyticsService struct {
	db    *sql.DB
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewAnalyticsService(db *sql.DB, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		db:    db,
		redis: rdb,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// SELAnalytics returns status, category and monthly breakdowns.
func (s *AnalyticsService) SELAnalytics(ctx context.Context) (*models.Analytics, error) {
	if cached := s.cached(ctx); cached != nil {
		return cached, nil
	}

	statuses, err := s.statusStats(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryStats(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthlyStats(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.Analytics{
		TransactionStatus: statuses,
		ServiceCategories: categories,
		MonthlyTrends:     monthly,
		GeneratedAt:       s.now().UTC(),
	}
	s.store(ctx, report)
	return report, nil
}

func (s *AnalyticsService) cached(ctx context.Context) *models.Analytics {
	if s.redis == nil || s.ttl <= 0 {
		return nil
	}

	raw, err := s.redis.Get(ctx, analyticsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("[ANALYTICS] cache read failed", zap.Error(err))
		}
		return nil
	}

	var report models.Analytics
	if err := json.Unmarshal(raw, &report); err != nil {
		s.log.Warn("[ANALYTICS] cache entry unreadable", zap.Error(err))
		return nil
	}
	return &report
}

func (s *AnalyticsService) store(ctx context.Context, report *models.Analytics) {
	if s.redis == nil || s.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, analyticsCacheKey, string(raw), s.ttl).Err(); err != nil {
		s.log.Warn("[ANALYTICS] cache write failed", zap.Error(err))
	}
}

func (s *AnalyticsService) statusStats(ctx context.Context) ([]models.StatusStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(id), COALESCE(AVG(units), 0)
		FROM sel_transactions
		GROUP BY status
		ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("transaction status stats: %w", err)
	}
	defer rows.Close()

	stats := []models.StatusStat{}
	for rows.Next() {
		var (
			stat models.StatusStat
			avg  decimal.Decimal
		)
		if err := rows.Scan(&stat.Status, &stat.Count, &avg); err != nil {
			return nil, fmt.Errorf("scan status stat: %w", err)
		}
		stat.AverageUnits = avg.Round(1).InexactFloat64()
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (s *AnalyticsService) categoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(id)
		FROM sel_services
		GROUP BY category
		ORDER BY COUNT(id) DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("service category stats: %w", err)
	}
	defer rows.Close()

	stats := []models.CategoryStat{}
	for rows.Next() {
		var stat models.CategoryStat
		if err := rows.Scan(&stat.Category, &stat.Count); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// monthlyStats keeps the twelve most recent months, oldest first.
func (s *AnalyticsService) monthlyStats(ctx context.Context) ([]models.MonthlyStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, transactions FROM (
			SELECT DATE_TRUNC('month', created_at) AS month, COUNT(id) AS transactions
			FROM sel_transactions
			GROUP BY 1
			ORDER BY 1 DESC
			LIMIT 12
		) recent
		ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("monthly stats: %w", err)
	}
	defer rows.Close()

	stats := []models.MonthlyStat{}
	for rows.Next() {
		var stat models.MonthlyStat
		if err := rows.Scan(&stat.Month, &stat.Transactions); err != nil {
			return nil, fmt.Errorf("scan monthly stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
