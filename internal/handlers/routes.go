package handlers

import (
	"net/http"
	"time"

	mW "github.com/ecolehub/sel/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Auth      *mW.Authenticator
	Ledger    *LedgerHandler
	Catalog   *CatalogHandler
	Analytics *AnalyticsHandler
	// SwaggerURL is where the UI fetches doc.json; empty keeps the default.
	SwaggerURL     string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	swaggerOpts := []func(*httpSwagger.Config){}
	if cfg.SwaggerURL != "" {
		swaggerOpts = append(swaggerOpts, httpSwagger.URL(cfg.SwaggerURL))
	}
	r.Get("/swagger/*", httpSwagger.Handler(swaggerOpts...))

	r.Route("/api/v1/sel", func(r chi.Router) {
		r.Use(cfg.Auth.Middleware)

		r.Get("/balance", cfg.Ledger.GetBalance)
		r.Get("/dashboard", cfg.Ledger.GetDashboard)

		r.Get("/categories", cfg.Catalog.ListCategories)
		r.Get("/services", cfg.Catalog.ListServices)
		r.Post("/services", cfg.Catalog.CreateService)
		r.Get("/services/mine", cfg.Catalog.ListMyServices)
		r.Put("/services/{serviceId}/deactivate", cfg.Catalog.DeactivateService)

		r.Get("/transactions", cfg.Ledger.ListTransactions)
		r.Post("/transactions", cfg.Ledger.CreateTransaction)
		r.Get("/transactions/{txId}", cfg.Ledger.GetTransaction)
		r.Put("/transactions/{txId}/approve", cfg.Ledger.ApproveTransaction)
		r.Put("/transactions/{txId}/cancel", cfg.Ledger.CancelTransaction)

		r.Get("/analytics", cfg.Analytics.GetAnalytics)
	})

	return r
}
