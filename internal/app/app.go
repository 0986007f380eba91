package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gamezone/internal/analytics"
	"gamezone/internal/cleaning"
	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/files"
	"gamezone/internal/infrastructure"
	"gamezone/internal/ingest"
	"gamezone/internal/operations"
	"gamezone/internal/services"
	transporthttp "gamezone/internal/transport/http"
	"gamezone/internal/websocket"
)

// Version is stamped at build time.
var Version = "dev"

// Application bundles the wired components of the web server.
type Application struct {
	config *config.Config
	paths  *config.Paths
	logger *slog.Logger

	hub     *websocket.Hub
	manager *operations.Manager
	otel    *infrastructure.OTelProviders

	server *http.Server
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logCfg := cfg.Logging
	if logCfg.FilePath == "" || logCfg.FilePath == "logs/app.log" {
		logCfg.FilePath = filepath.Join(paths.LogsDir, "web.log")
	}
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel("gamezone-web", Version, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	metrics, err := infrastructure.NewPipelineMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	hub := websocket.NewHub(logger)

	manager, err := buildManager(cfg, paths, hub, logger)
	if err != nil {
		return nil, err
	}
	manager.SetMetrics(metrics)

	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Reports:   services.NewReportService(cfg.Pipeline, paths, logger),
		Health:    services.NewHealthService(paths, logger),
		Manager:   manager,
		Discovery: files.NewDiscovery(paths),
		Hub:       hub,
		RateRPS:   cfg.Server.RateLimitRPS,
		RateBurst: cfg.Server.RateLimitBurst,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		config:  cfg,
		paths:   paths,
		logger:  logger,
		hub:     hub,
		manager: manager,
		otel:    otelProviders,
		server:  server,
	}, nil
}

// buildManager assembles the pipeline steps behind the run manager.
func buildManager(cfg *config.Config, paths *config.Paths, hub *websocket.Hub, logger *slog.Logger) (*operations.Manager, error) {
	cleaningCfg := cleaning.Config{
		TextColumns: cfg.Pipeline.TextColumns,
		NullTokens:  cfg.NullTokenSet(),
		TimeLayouts: cleaning.DefaultTimeLayouts(),
	}

	var warehouse *ingest.WarehouseReader
	if cfg.Warehouse.ProjectID != "" {
		var err error
		warehouse, err = ingest.NewWarehouseReader(context.Background(), cfg.Warehouse, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize warehouse reader: %w", err)
		}
	}

	steps := []operations.Step{
		operations.NewLoadStep(
			ingest.NewCSVReader(logger),
			ingest.NewExcelReader(logger),
			warehouse,
			paths,
			logger,
		),
		operations.NewCleanStep(cleaning.NewPipeline(cleaningCfg, logger), logger),
		operations.NewAggregateStep(
			analytics.NewAggregator(logger),
			analytics.NewClassifier(cfg.Pipeline.ChurnThresholdDays),
			cfg.Pipeline,
			logger,
		),
		operations.NewExportStep(
			exporter.NewReportExporter(exporter.NewCSVWriter(paths), logger),
			paths,
			logger,
		),
	}

	return operations.NewManager(steps, hub, logger), nil
}

// Start runs the HTTP server until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	a.hub.Start()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return a.Stop()
	}
}

// Stop shuts the application down gracefully.
func (a *Application) Stop() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.server.Shutdown(ctx); err != nil {
		firstErr = err
	}
	a.hub.Stop()
	if err := a.otel.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Start(ctx)
}

// WaitUntilReady polls the health endpoint until the server responds, for
// tests and the startup banner.
func (a *Application) WaitUntilReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://localhost%s/api/health", a.server.Addr)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready within %s", timeout)
}
