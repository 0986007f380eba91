package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"gamezone/internal/ingest"
	"gamezone/pkg/contracts/domain"
)

// Report file names under the reports directory.
const (
	RFMReportCSV        = "rfm_features.csv"
	DailySalesReportCSV = "daily_sales.csv"
	ProductReportCSV    = "top_products.csv"
	TrendsReportCSV     = "monthly_product_trends.csv"
	LTVReportCSV        = "top_customers_ltv.csv"
	RecencyHistogramCSV = "recency_histogram.csv"
)

// ReportExporter renders the clean record set and the analytics reports to
// their CSV layouts.
type ReportExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates a report exporter.
func NewReportExporter(writer *CSVWriter, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{writer: writer, logger: logger}
}

// ExportRawSet persists a raw record set in the raw orders layout, used by
// the loader to stage warehouse and workbook pulls for the cleaning tools.
func (e *ReportExporter) ExportRawSet(ctx context.Context, set domain.RecordSet, path string) error {
	if set.Maturity != domain.MaturityRaw {
		return fmt.Errorf("raw export requires a raw record set, got %s", set.Maturity)
	}

	rows := make([][]string, 0, len(set.Records))
	for _, r := range set.Records {
		rows = append(rows, []string{
			r.OrderID,
			r.UserID,
			formatOptString(r.ProductName),
			r.PurchaseTSRaw,
			r.ShipTSRaw,
			r.PriceRaw,
			formatOptString(r.Platform),
			formatOptString(r.MarketingChannel),
			formatOptString(r.AccountCreationMethod),
			formatOptString(r.CountryCode),
		})
	}

	e.logger.InfoContext(ctx, "exporting raw record set",
		slog.String("path", path),
		slog.Int("records", len(rows)))

	return e.writer.WriteSimpleCSV(path, domain.RawColumns, rows)
}

// ExportCleanSet persists a clean record set. Instants are written as
// RFC 3339 UTC so the file round-trips through ingest without loss.
func (e *ReportExporter) ExportCleanSet(ctx context.Context, set domain.RecordSet, path string) error {
	if set.Maturity != domain.MaturityClean {
		return fmt.Errorf("export requires a clean record set, got %s", set.Maturity)
	}

	rows := make([][]string, 0, len(set.Records))
	for _, r := range set.Records {
		rows = append(rows, []string{
			r.OrderID,
			r.UserID,
			formatOptString(r.ProductName),
			formatOptInstant(r.PurchaseAt),
			formatOptInstant(r.ShipAt),
			formatOptInstant(r.ShipDate),
			formatOptDecimal(r.PriceUSD),
			formatOptString(r.Platform),
			formatOptString(r.MarketingChannel),
			formatOptString(r.AccountCreationMethod),
			formatOptString(r.CountryCode),
			formatBool(r.ShipBeforePurchase),
		})
	}

	e.logger.InfoContext(ctx, "exporting clean record set",
		slog.String("path", path),
		slog.Int("records", len(rows)))

	return e.writer.WriteSimpleCSV(path, ingest.CleanColumns, rows)
}

// ExportRFM writes the per-customer RFM feature report. A customer with no
// parseable purchase carries an empty last_purchase and recency cell.
func (e *ReportExporter) ExportRFM(ctx context.Context, rfm []domain.RFMRow) error {
	headers := []string{"user_id", "last_purchase", "frequency", "monetary_value", "recency_days", "churned"}
	rows := make([][]string, 0, len(rfm))
	for _, r := range rfm {
		last, recency := "", ""
		if r.RecencyDays >= 0 {
			last = formatInstant(r.LastPurchase)
			recency = formatInt(r.RecencyDays)
		}
		rows = append(rows, []string{
			r.UserID,
			last,
			formatInt(r.Frequency),
			formatDecimal(r.MonetaryValue),
			recency,
			formatBool(r.Churned),
		})
	}
	return e.export(ctx, RFMReportCSV, headers, rows)
}

// ExportDailySales writes the daily sales report.
func (e *ReportExporter) ExportDailySales(ctx context.Context, sales []domain.DailySalesRow) error {
	headers := []string{"date", "total_sales"}
	rows := make([][]string, 0, len(sales))
	for _, r := range sales {
		rows = append(rows, []string{formatDate(r.Date), formatDecimal(r.TotalSales)})
	}
	return e.export(ctx, DailySalesReportCSV, headers, rows)
}

// ExportProductRevenue writes the top products report.
func (e *ReportExporter) ExportProductRevenue(ctx context.Context, products []domain.ProductRevenueRow) error {
	headers := []string{"product_name", "total_sales"}
	rows := make([][]string, 0, len(products))
	for _, r := range products {
		rows = append(rows, []string{r.ProductName, formatDecimal(r.TotalSales)})
	}
	return e.export(ctx, ProductReportCSV, headers, rows)
}

// ExportMonthlyTrends writes the monthly product trends report.
func (e *ReportExporter) ExportMonthlyTrends(ctx context.Context, trends []domain.ProductTrendRow) error {
	headers := []string{"month", "product_name", "total_sales"}
	rows := make([][]string, 0, len(trends))
	for _, r := range trends {
		rows = append(rows, []string{formatMonth(r.Month), r.ProductName, formatDecimal(r.TotalSales)})
	}
	return e.export(ctx, TrendsReportCSV, headers, rows)
}

// ExportCustomerLTV writes the top customers report.
func (e *ReportExporter) ExportCustomerLTV(ctx context.Context, customers []domain.CustomerLTVRow) error {
	headers := []string{"user_id", "ltv"}
	rows := make([][]string, 0, len(customers))
	for _, r := range customers {
		rows = append(rows, []string{r.UserID, formatDecimal(r.LTV)})
	}
	return e.export(ctx, LTVReportCSV, headers, rows)
}

// ExportRecencyHistogram writes the recency histogram. The open-ended last
// bucket carries an empty to_days cell.
func (e *ReportExporter) ExportRecencyHistogram(ctx context.Context, buckets []domain.RecencyBucket) error {
	headers := []string{"from_days", "to_days", "customers"}
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		to := ""
		if b.ToDays >= 0 {
			to = formatInt(b.ToDays)
		}
		rows = append(rows, []string{formatInt(b.FromDays), to, formatInt(b.Customers)})
	}
	return e.export(ctx, RecencyHistogramCSV, headers, rows)
}

func (e *ReportExporter) export(ctx context.Context, name string, headers []string, rows [][]string) error {
	e.logger.InfoContext(ctx, "exporting report",
		slog.String("report", name),
		slog.Int("rows", len(rows)))
	return e.writer.WriteSimpleCSV(name, headers, rows)
}
