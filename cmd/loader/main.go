package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/infrastructure"
	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

func main() {
	source := flag.String("source", "excel", "raw order source: excel or warehouse")
	in := flag.String("in", "", "input workbook path (excel source)")
	out := flag.String("out", "", "output raw CSV path (defaults to data/raw/orders_raw.csv relative to executable)")
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

	if *out == "" {
		*out = paths.RawOrdersPath()
	}

	ctx := context.Background()
	var set domain.RecordSet

	switch *source {
	case "excel":
		if *in == "" {
			logger.Error("excel source requires -in workbook path")
			os.Exit(1)
		}
		set, _, err = ingest.NewExcelReader(logger).ReadRaw(ctx, *in)
	case "warehouse":
		var reader *ingest.WarehouseReader
		reader, err = ingest.NewWarehouseReader(ctx, cfg.Warehouse, logger)
		if err == nil {
			set, err = reader.ReadRaw(ctx)
		}
	default:
		logger.Error("unknown source", slog.String("source", *source))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to load raw orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(exporter.NewCSVWriter(paths), logger)
	if err := reports.ExportRawSet(ctx, set, *out); err != nil {
		logger.Error("failed to write raw orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("raw orders staged",
		slog.String("source", *source),
		slog.String("path", *out),
		slog.Int("records", len(set.Records)))
}
