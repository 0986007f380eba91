package services

import (
	"context"
	"log/slog"
	"time"

	"gamezone/internal/config"
)

// HealthStatus is the readiness report served at /api/health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthService reports readiness of the pipeline's data surfaces.
type HealthService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewHealthService creates a health service.
func NewHealthService(paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:  paths,
		logger: logger.With(slog.String("component", "health_service")),
	}
}

// Check reports overall health. The service is degraded rather than down
// when inputs are absent: the API still serves, runs will fail with a
// remediation hint.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	checks := make(map[string]string)

	if config.FileExists(s.paths.RawOrdersPath()) {
		checks["raw_orders"] = "present"
	} else {
		checks["raw_orders"] = "missing"
	}
	if config.FileExists(s.paths.CleanOrdersPath()) {
		checks["clean_orders"] = "present"
	} else {
		checks["clean_orders"] = "missing"
	}

	status := "healthy"
	if checks["clean_orders"] == "missing" {
		status = "degraded"
	}

	s.logger.DebugContext(ctx, "health check",
		slog.String("status", status))

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}
