package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gamezone/internal/cleaning"
	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/infrastructure"
	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input raw CSV path or directory (defaults to data/raw/orders_raw.csv relative to executable)")
	out := flag.String("out", "", "output clean CSV path (defaults to data/reports/orders_clean.csv relative to executable)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	if *in == "" {
		*in = paths.RawOrdersPath()
	}
	if *out == "" {
		*out = paths.CleanOrdersPath()
	}

	ctx := context.Background()
	reader := ingest.NewCSVReader(logger)

	var raw domain.RecordSet
	if info, statErr := os.Stat(*in); statErr == nil && info.IsDir() {
		raw, err = reader.ReadRawDir(ctx, *in)
	} else {
		raw, _, err = reader.ReadRaw(ctx, *in)
	}
	if err != nil {
		logger.Error("failed to read raw orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline := cleaning.NewPipeline(cleaning.Config{
		TextColumns: cfg.Pipeline.TextColumns,
		NullTokens:  cfg.NullTokenSet(),
		TimeLayouts: cleaning.DefaultTimeLayouts(),
	}, logger)

	clean, report, err := pipeline.Run(ctx, raw)
	if err != nil {
		logger.Error("cleaning pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(exporter.NewCSVWriter(paths), logger)
	if err := reports.ExportCleanSet(ctx, clean, *out); err != nil {
		logger.Error("failed to write clean orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("cleaning complete",
		slog.String("path", *out),
		slog.Int("records", report.Records),
		slog.Int("purchase_failures", report.Coerce.PurchaseFailures),
		slog.Int("ship_failures", report.Coerce.ShipFailures),
		slog.Int("price_failures", report.Coerce.PriceFailures),
		slog.Int("ship_before_purchase", report.Flag.ShipBeforePurchase))
}
