package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gamezone/internal/analytics"
	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/infrastructure"
	"gamezone/internal/ingest"
)

func main() {
	in := flag.String("in", "", "input clean CSV path (defaults to data/reports/orders_clean.csv relative to executable)")
	churnDays := flag.Int("churn-days", 0, "churn threshold in days (defaults to configured value)")
	topProducts := flag.Int("top-products", 0, "number of products in the revenue ranking (defaults to configured value)")
	topCustomers := flag.Int("top-customers", 0, "number of customers in the LTV ranking (defaults to configured value)")
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
		*in = paths.CleanOrdersPath()
	}
	if *churnDays <= 0 {
		*churnDays = cfg.Pipeline.ChurnThresholdDays
	}
	if *topProducts <= 0 {
		*topProducts = cfg.Pipeline.TopProducts
	}
	if *topCustomers <= 0 {
		*topCustomers = cfg.Pipeline.TopCustomers
	}

	ctx := context.Background()

	clean, err := ingest.NewCSVReader(logger).ReadClean(ctx, *in)
	if err != nil {
		logger.Error("failed to read clean orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	aggregator := analytics.NewAggregator(logger)
	classifier := analytics.NewClassifier(*churnDays)
	snapshot, found := analytics.Snapshot(clean.Records)
	if !found {
		logger.Warn("no parseable purchase instants, recency features will be unknown")
	}

	rfm, err := aggregator.RFM(ctx, clean, snapshot, classifier)
	if err != nil {
		logger.Error("RFM aggregation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sales, err := aggregator.DailySales(ctx, clean)
	if err != nil {
		logger.Error("daily sales aggregation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	products, err := aggregator.ProductRevenue(ctx, clean, *topProducts)
	if err != nil {
		logger.Error("product ranking failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	trends, err := aggregator.MonthlyTrends(ctx, clean, *topProducts)
	if err != nil {
		logger.Error("monthly trends failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ltv, err := aggregator.TopCustomersByLTV(ctx, clean, *topCustomers)
	if err != nil {
		logger.Error("customer ranking failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(exporter.NewCSVWriter(paths), logger)
	exports := []struct {
		name string
		run  func() error
	}{
		{"rfm", func() error { return reports.ExportRFM(ctx, rfm) }},
		{"daily sales", func() error { return reports.ExportDailySales(ctx, sales) }},
		{"top products", func() error { return reports.ExportProductRevenue(ctx, products) }},
		{"monthly trends", func() error { return reports.ExportMonthlyTrends(ctx, trends) }},
		{"top customers", func() error { return reports.ExportCustomerLTV(ctx, ltv) }},
		{"recency histogram", func() error {
			return reports.ExportRecencyHistogram(ctx, analytics.RecencyHistogram(rfm, 30))
		}},
	}
	for _, e := range exports {
		if err := e.run(); err != nil {
			logger.Error("report export failed",
				slog.String("report", e.name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("reports generated",
		slog.Int("customers", len(rfm)),
		slog.Int("days", len(sales)),
		slog.String("reports_dir", paths.ReportsDir))
}
