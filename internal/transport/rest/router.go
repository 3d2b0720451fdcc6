package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/metrics"
	"github.com/frahmantamala/timesheet-management/internal/transport/middleware"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes mounts the operational endpoints: probes and metrics.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, cfg.Database.Driver, logger)

	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware)

	if cfg.Observability.Metrics.Enabled {
		router.Handle(cfg.Observability.Metrics.Path, metrics.Handler())
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		healthHandler.WriteError(w, http.StatusNotFound, "route not found")
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)
	})
}
