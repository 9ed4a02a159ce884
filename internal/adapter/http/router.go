package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/handler"
	"github.com/airoxlab/bizposcash-sub000/internal/adapter/http/middleware"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/auth"
)

// RouterConfig holds the handlers and middleware for the HTTP router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	TransactionHandler    *handler.TransactionHandler
	ApprovalHandler       *handler.ApprovalHandler
	ReconciliationHandler *handler.ReconciliationHandler
	ReplenishmentHandler  *handler.ReplenishmentHandler
	ReportHandler         *handler.ReportHandler
	HealthHandler         *handler.HealthHandler
	JWTManager            *auth.JWTManager
	IdempotencyMiddleware *middleware.IdempotencyMiddleware
	Logger                zerolog.Logger
}

// NewRouter builds the HTTP routing tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		if cfg.IdempotencyMiddleware != nil {
			r.Use(cfg.IdempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/me", cfg.AccountHandler.GetMine)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/summary", cfg.ReportHandler.Summary)
			r.Get("/{id}/consistency", cfg.ReportHandler.Consistency)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Post("/", cfg.AccountHandler.Create)
				r.Patch("/{id}", cfg.AccountHandler.Update)
				r.Post("/{id}/suspend", cfg.AccountHandler.Suspend)
				r.Post("/{id}/close", cfg.AccountHandler.Close)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/pending", cfg.ApprovalHandler.ListPending)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Post("/", cfg.TransactionHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Post("/{id}/approve", cfg.ApprovalHandler.Approve)
				r.Post("/{id}/reject", cfg.ApprovalHandler.Reject)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.RecordExpense)
			r.Get("/categories", cfg.TransactionHandler.ListCategories)
		})

		r.Route("/reconciliations", func(r chi.Router) {
			r.Post("/", cfg.ReconciliationHandler.Create)
			r.Get("/", cfg.ReconciliationHandler.List)
			r.Get("/{id}", cfg.ReconciliationHandler.Get)
		})

		r.Route("/replenishments", func(r chi.Router) {
			r.Post("/", cfg.ReplenishmentHandler.Request)
			r.Get("/", cfg.ReplenishmentHandler.List)
			r.Get("/{id}", cfg.ReplenishmentHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Post("/{id}/approve", cfg.ReplenishmentHandler.Approve)
				r.Post("/{id}/disburse", cfg.ReplenishmentHandler.Disburse)
				r.Post("/{id}/reject", cfg.ReplenishmentHandler.Reject)
			})
		})

		r.Get("/alerts", cfg.ReportHandler.Alerts)
	})

	return r
}
