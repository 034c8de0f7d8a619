package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/ecolehub/sel/internal/audit"
	"github.com/ecolehub/sel/internal/config"
	"github.com/ecolehub/sel/internal/database"
	"github.com/ecolehub/sel/internal/handlers"
	"github.com/ecolehub/sel/internal/middleware"
	"github.com/ecolehub/sel/internal/services"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App holds the wired ledger services.
type App struct {
	DB        *sql.DB
	Redis     *redis.Client
	Balances  *services.BalanceStore
	Catalog   *services.CatalogService
	Ledger    *services.LedgerService
	Analytics *services.AnalyticsService
	Auth      *middleware.Authenticator
	log       *zap.Logger
}

// New connects to Postgres and Redis and builds the services. Redis is
// optional: without it rate limiting and analytics caching are off.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb := database.InitRedis(ctx, cfg.Redis, log)

	cleanup := func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Warn("error closing redis", zap.Error(err))
			}
		}
		if err := db.Close(); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}

	return build(cfg, db, rdb, log), cleanup, nil
}

func build(cfg *config.Config, db *sql.DB, rdb *redis.Client, log *zap.Logger) *App {
	auditLogger := audit.NewLogger(log)

	balances := services.NewBalanceStore(db, cfg.Ledger.Limits(), log)
	catalog := services.NewCatalogService(db, cfg.Ledger.UnitsPerHour, auditLogger, log)
	limiter := services.NewRateLimiter(rdb, cfg.RateLimit.MaxTransactions, cfg.RateLimit.Window, log)
	ledger := services.NewLedgerService(db, balances, catalog, services.NewSQLMemberDirectory(db),
		limiter, auditLogger, log, services.LedgerOptions{
			ApproveRetries: cfg.Ledger.ApproveRetries,
			RetryBaseDelay: cfg.Ledger.RetryBaseDelay,
		})

	return &App{
		DB:        db,
		Redis:     rdb,
		Balances:  balances,
		Catalog:   catalog,
		Ledger:    ledger,
		Analytics: services.NewAnalyticsService(db, rdb, cfg.Analytics.CacheTTL, log),
		Auth:      middleware.NewAuthenticator(cfg.JWT.SecretKey),
		log:       log,
	}
}

// Handler exposes the services over HTTP.
func (a *App) Handler(swaggerURL string, timeout time.Duration) http.Handler {
	return handlers.NewRouter(handlers.RouterConfig{
		Auth:           a.Auth,
		Ledger:         handlers.NewLedgerHandler(a.Ledger, a.Balances, a.log),
		Catalog:        handlers.NewCatalogHandler(a.Catalog, a.log),
		Analytics:      handlers.NewAnalyticsHandler(a.Analytics, a.log),
		SwaggerURL:     swaggerURL,
		RequestTimeout: timeout,
	})
}
