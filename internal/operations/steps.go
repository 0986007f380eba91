package operations

import (
	"context"
	"fmt"
	"log/slog"

	"gamezone/internal/analytics"
	"gamezone/internal/cleaning"
	"gamezone/internal/config"
	"gamezone/internal/exporter"
	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

// Raw input sources accepted by the load step.
const (
	SourceCSV       = "csv"
	SourceExcel     = "excel"
	SourceWarehouse = "warehouse"
)

// recencyBucketWidthDays is the bin width of the recency histogram report.
const recencyBucketWidthDays = 30

// LoadStep reads the raw order record set from the configured source.
type LoadStep struct {
	csv       *ingest.CSVReader
	excel     *ingest.ExcelReader
	warehouse *ingest.WarehouseReader
	paths     *config.Paths
	logger    *slog.Logger
}

// NewLoadStep creates the load step. The warehouse reader may be nil when no
// warehouse is configured.
func NewLoadStep(csv *ingest.CSVReader, excel *ingest.ExcelReader, warehouse *ingest.WarehouseReader, paths *config.Paths, logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{csv: csv, excel: excel, warehouse: warehouse, paths: paths, logger: logger}
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return StepNameLoad }

func (s *LoadStep) Validate(state *RunState) error {
	switch state.Request.Source {
	case "", SourceCSV, SourceExcel:
		return nil
	case SourceWarehouse:
		if s.warehouse == nil {
			return fmt.Errorf("warehouse source requested but no warehouse is configured")
		}
		return nil
	default:
		return fmt.Errorf("unknown source %q", state.Request.Source)
	}
}

func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	var (
		set domain.RecordSet
		err error
	)

	source := state.Request.Source
	if source == "" {
		source = SourceCSV
	}
	path := state.Request.InputPath

	switch source {
	case SourceCSV:
		if path == "" {
			path = s.paths.RawOrdersPath()
		}
		set, _, err = s.csv.ReadRaw(ctx, path)
	case SourceExcel:
		set, _, err = s.excel.ReadRaw(ctx, path)
	case SourceWarehouse:
		set, err = s.warehouse.ReadRaw(ctx)
	}
	if err != nil {
		return err
	}

	step := state.GetStep(StepIDLoad)
	step.SetMetadata("records", len(set.Records))
	step.SetMetadata("source", source)

	state.SetContext(ContextKeyRawSet, set)
	return nil
}

// CleanStep runs the cleaning pipeline over the raw record set.
type CleanStep struct {
	pipeline *cleaning.Pipeline
	logger   *slog.Logger
}

// NewCleanStep creates the clean step.
func NewCleanStep(pipeline *cleaning.Pipeline, logger *slog.Logger) *CleanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanStep{pipeline: pipeline, logger: logger}
}

func (s *CleanStep) ID() string   { return StepIDClean }
func (s *CleanStep) Name() string { return StepNameClean }

func (s *CleanStep) Validate(state *RunState) error {
	if _, ok := state.GetContext(ContextKeyRawSet); !ok {
		return fmt.Errorf("no raw record set loaded, the load step must run first")
	}
	return nil
}

func (s *CleanStep) Execute(ctx context.Context, state *RunState) error {
	val, _ := state.GetContext(ContextKeyRawSet)
	raw, ok := val.(domain.RecordSet)
	if !ok {
		return fmt.Errorf("raw record set has unexpected type %T", val)
	}

	clean, report, err := s.pipeline.Run(ctx, raw)
	if err != nil {
		return err
	}

	step := state.GetStep(StepIDClean)
	step.SetMetadata("records", len(clean.Records))
	step.SetMetadata("purchase_failures", report.Coerce.PurchaseFailures)
	step.SetMetadata("ship_failures", report.Coerce.ShipFailures)
	step.SetMetadata("price_failures", report.Coerce.PriceFailures)
	step.SetMetadata("ship_before_purchase", report.Flag.ShipBeforePurchase)

	state.SetContext(ContextKeyCleanSet, clean)
	state.SetContext(ContextKeyRunReport, report)
	return nil
}

// AggregateStep derives every analytics report from the clean record set.
type AggregateStep struct {
	aggregator *analytics.Aggregator
	classifier *analytics.Classifier
	cfg        config.PipelineConfig
	logger     *slog.Logger
}

// NewAggregateStep creates the aggregate step.
func NewAggregateStep(aggregator *analytics.Aggregator, classifier *analytics.Classifier, cfg config.PipelineConfig, logger *slog.Logger) *AggregateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateStep{aggregator: aggregator, classifier: classifier, cfg: cfg, logger: logger}
}

func (s *AggregateStep) ID() string   { return StepIDAggregate }
func (s *AggregateStep) Name() string { return StepNameAggregate }

func (s *AggregateStep) Validate(state *RunState) error {
	if _, ok := state.GetContext(ContextKeyCleanSet); !ok {
		return fmt.Errorf("no clean record set available, the clean step must run first")
	}
	return nil
}

func (s *AggregateStep) Execute(ctx context.Context, state *RunState) error {
	val, _ := state.GetContext(ContextKeyCleanSet)
	clean, ok := val.(domain.RecordSet)
	if !ok {
		return fmt.Errorf("clean record set has unexpected type %T", val)
	}

	step := state.GetStep(StepIDAggregate)

	snapshot, found := analytics.Snapshot(clean.Records)
	if !found {
		s.logger.WarnContext(ctx, "no parseable purchase instants, recency features will be unknown")
	}

	step.UpdateProgress(10, "deriving RFM features")
	rfm, err := s.aggregator.RFM(ctx, clean, snapshot, s.classifier)
	if err != nil {
		return err
	}

	step.UpdateProgress(40, "aggregating daily sales")
	sales, err := s.aggregator.DailySales(ctx, clean)
	if err != nil {
		return err
	}

	step.UpdateProgress(60, "ranking products")
	products, err := s.aggregator.ProductRevenue(ctx, clean, s.cfg.TopProducts)
	if err != nil {
		return err
	}
	trends, err := s.aggregator.MonthlyTrends(ctx, clean, s.cfg.TopProducts)
	if err != nil {
		return err
	}

	step.UpdateProgress(80, "ranking customers")
	ltv, err := s.aggregator.TopCustomersByLTV(ctx, clean, s.cfg.TopCustomers)
	if err != nil {
		return err
	}

	step.SetMetadata("customers", len(rfm))
	step.SetMetadata("days", len(sales))

	state.SetContext(ContextKeyRFM, rfm)
	state.SetContext(ContextKeyDailySales, sales)
	state.SetContext(ContextKeyTopProducts, products)
	state.SetContext(ContextKeyTrends, trends)
	state.SetContext(ContextKeyTopLTV, ltv)
	state.SetContext(ContextKeyHistogram, analytics.RecencyHistogram(rfm, recencyBucketWidthDays))
	return nil
}

// ExportStep persists the clean record set and every derived report.
type ExportStep struct {
	reports *exporter.ReportExporter
	paths   *config.Paths
	logger  *slog.Logger
}

// NewExportStep creates the export step.
func NewExportStep(reports *exporter.ReportExporter, paths *config.Paths, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{reports: reports, paths: paths, logger: logger}
}

func (s *ExportStep) ID() string   { return StepIDExport }
func (s *ExportStep) Name() string { return StepNameExport }

func (s *ExportStep) Validate(state *RunState) error {
	if _, ok := state.GetContext(ContextKeyCleanSet); !ok {
		return fmt.Errorf("no clean record set available, the clean step must run first")
	}
	if _, ok := state.GetContext(ContextKeyRFM); !ok {
		return fmt.Errorf("no derived reports available, the aggregate step must run first")
	}
	return nil
}

func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	clean, _ := state.GetContext(ContextKeyCleanSet)
	set, ok := clean.(domain.RecordSet)
	if !ok {
		return fmt.Errorf("clean record set has unexpected type %T", clean)
	}

	if err := s.reports.ExportCleanSet(ctx, set, s.paths.CleanOrdersPath()); err != nil {
		return err
	}

	if v, ok := state.GetContext(ContextKeyRFM); ok {
		if rows, ok := v.([]domain.RFMRow); ok {
			if err := s.reports.ExportRFM(ctx, rows); err != nil {
				return err
			}
		}
	}
	if v, ok := state.GetContext(ContextKeyDailySales); ok {
		if rows, ok := v.([]domain.DailySalesRow); ok {
			if err := s.reports.ExportDailySales(ctx, rows); err != nil {
				return err
			}
		}
	}
	if v, ok := state.GetContext(ContextKeyTopProducts); ok {
		if rows, ok := v.([]domain.ProductRevenueRow); ok {
			if err := s.reports.ExportProductRevenue(ctx, rows); err != nil {
				return err
			}
		}
	}
	if v, ok := state.GetContext(ContextKeyTrends); ok {
		if rows, ok := v.([]domain.ProductTrendRow); ok {
			if err := s.reports.ExportMonthlyTrends(ctx, rows); err != nil {
				return err
			}
		}
	}
	if v, ok := state.GetContext(ContextKeyTopLTV); ok {
		if rows, ok := v.([]domain.CustomerLTVRow); ok {
			if err := s.reports.ExportCustomerLTV(ctx, rows); err != nil {
				return err
			}
		}
	}
	if v, ok := state.GetContext(ContextKeyHistogram); ok {
		if rows, ok := v.([]domain.RecencyBucket); ok {
			if err := s.reports.ExportRecencyHistogram(ctx, rows); err != nil {
				return err
			}
		}
	}
	return nil
}
