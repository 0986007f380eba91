package services

import (
	"context"
	"log/slog"
	"time"

	"gamezone/internal/analytics"
	"gamezone/internal/config"
	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

// ReportService derives analytics reports from the persisted clean record
// set. Each call re-reads the file so reports always reflect the latest
// completed cleaning run.
type ReportService struct {
	reader     *ingest.CSVReader
	aggregator *analytics.Aggregator
	classifier *analytics.Classifier
	paths      *config.Paths
	cfg        config.PipelineConfig
	logger     *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(cfg config.PipelineConfig, paths *config.Paths, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "report_service"))

	return &ReportService{
		reader:     ingest.NewCSVReader(logger),
		aggregator: analytics.NewAggregator(logger),
		classifier: analytics.NewClassifier(cfg.ChurnThresholdDays),
		paths:      paths,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *ReportService) loadClean(ctx context.Context) (domain.RecordSet, error) {
	return s.reader.ReadClean(ctx, s.paths.CleanOrdersPath())
}

// RFM returns the per-customer RFM feature rows.
func (s *ReportService) RFM(ctx context.Context) ([]domain.RFMRow, error) {
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, _ := analytics.Snapshot(set.Records)
	return s.aggregator.RFM(ctx, set, snapshot, s.classifier)
}

// Snapshot returns the reference instant used for recency, derived from the
// clean record set.
func (s *ReportService) Snapshot(ctx context.Context) (time.Time, bool, error) {
	set, err := s.loadClean(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	snapshot, found := analytics.Snapshot(set.Records)
	return snapshot, found, nil
}

// DailySales returns total sales per calendar day.
func (s *ReportService) DailySales(ctx context.Context) ([]domain.DailySalesRow, error) {
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.DailySales(ctx, set)
}

// TopProducts returns the highest-revenue products.
func (s *ReportService) TopProducts(ctx context.Context, k int) ([]domain.ProductRevenueRow, error) {
	if k <= 0 {
		k = s.cfg.TopProducts
	}
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.ProductRevenue(ctx, set, k)
}

// MonthlyTrends returns month-by-month sales for the top products.
func (s *ReportService) MonthlyTrends(ctx context.Context, k int) ([]domain.ProductTrendRow, error) {
	if k <= 0 {
		k = s.cfg.TopProducts
	}
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.MonthlyTrends(ctx, set, k)
}

// TopCustomers returns the highest-LTV customers.
func (s *ReportService) TopCustomers(ctx context.Context, k int) ([]domain.CustomerLTVRow, error) {
	if k <= 0 {
		k = s.cfg.TopCustomers
	}
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.TopCustomersByLTV(ctx, set, k)
}

// RFMSummary condenses the customer base into the headline churn figures
// plus the recency distribution.
type RFMSummary struct {
	Snapshot       *time.Time             `json:"snapshot"`
	Customers      int                    `json:"customers"`
	Churned        int                    `json:"churned"`
	UnknownRecency int                    `json:"unknown_recency"`
	ThresholdDays  int                    `json:"threshold_days"`
	Histogram      []domain.RecencyBucket `json:"histogram"`
}

// Summary returns the RFM summary for the clean record set.
func (s *ReportService) Summary(ctx context.Context) (*RFMSummary, error) {
	set, err := s.loadClean(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RFMSummary{ThresholdDays: s.cfg.ChurnThresholdDays}
	if snapshot, found := analytics.Snapshot(set.Records); found {
		summary.Snapshot = &snapshot
	}

	var snapshot time.Time
	if summary.Snapshot != nil {
		snapshot = *summary.Snapshot
	}
	rfm, err := s.aggregator.RFM(ctx, set, snapshot, s.classifier)
	if err != nil {
		return nil, err
	}

	summary.Customers = len(rfm)
	for _, row := range rfm {
		if row.Churned {
			summary.Churned++
		}
		if row.RecencyDays < 0 {
			summary.UnknownRecency++
		}
	}
	summary.Histogram = analytics.RecencyHistogram(rfm, 30)
	return summary, nil
}

// RecencyHistogram returns the recency distribution of the customer base.
func (s *ReportService) RecencyHistogram(ctx context.Context, widthDays int) ([]domain.RecencyBucket, error) {
	if widthDays <= 0 {
		widthDays = 30
	}
	rfm, err := s.RFM(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.RecencyHistogram(rfm, widthDays), nil
}
