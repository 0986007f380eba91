package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamezone/internal/files"
	"gamezone/internal/middleware"
	"gamezone/internal/operations"
	"gamezone/internal/services"
	"gamezone/internal/websocket"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Reports   *services.ReportService
	Health    *services.HealthService
	Manager   *operations.Manager
	Discovery *files.Discovery
	Hub       *websocket.Hub
	RateRPS   float64
	RateBurst int
	Logger    *slog.Logger
}

// NewRouter assembles the chi router with the standard middleware stack.
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 50
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 100
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewRateLimiter(rps, burst, logger).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", NewHealthHandler(cfg.Health, logger).Routes())
		r.Mount("/reports", NewReportsHandler(cfg.Reports, logger).Routes())
		r.Mount("/operations", NewOperationsHandler(cfg.Manager, logger).Routes())
		if cfg.Discovery != nil {
			r.Mount("/data", NewDataHandler(cfg.Discovery, logger).Routes())
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	if cfg.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWS(cfg.Hub, w, req, logger)
		})
	}

	return r
}

// detachedContext preserves request values while dropping cancellation, so
// asynchronous runs outlive the HTTP request that started them.
func detachedContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
