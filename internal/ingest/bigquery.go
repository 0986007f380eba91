package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"

	"gamezone/internal/config"
	apperrors "gamezone/internal/errors"
	"gamezone/pkg/contracts/domain"
)

// WarehouseReader pulls the Orders table from BigQuery into a raw record
// set. It is the in-process replacement for the manual warehouse export.
type WarehouseReader struct {
	service *bigquery.Service
	cfg     config.WarehouseConfig
	logger  *slog.Logger
}

// NewWarehouseReader creates a BigQuery-backed reader.
func NewWarehouseReader(ctx context.Context, cfg config.WarehouseConfig, logger *slog.Logger) (*WarehouseReader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProjectID == "" {
		return nil, apperrors.NewConfigError("warehouse project id is required", nil)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	service, err := bigquery.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create BigQuery service", err)
	}

	return &WarehouseReader{service: service, cfg: cfg, logger: logger}, nil
}

// ReadRaw queries the configured Orders table and returns a raw record set.
// Paging is handled transparently; the result is the full table.
func (r *WarehouseReader) ReadRaw(ctx context.Context) (domain.RecordSet, error) {
	query := fmt.Sprintf("SELECT %s FROM `%s.%s.%s`",
		columnList(), r.cfg.ProjectID, r.cfg.Dataset, r.cfg.Table)

	r.logger.InfoContext(ctx, "querying warehouse",
		slog.String("project", r.cfg.ProjectID),
		slog.String("dataset", r.cfg.Dataset),
		slog.String("table", r.cfg.Table))

	req := &bigquery.QueryRequest{
		Query:        query,
		UseLegacySql: boolPtr(false),
	}
	resp, err := r.service.Jobs.Query(r.cfg.ProjectID, req).Context(ctx).Do()
	if err != nil {
		return domain.RecordSet{}, apperrors.NewStorageError("warehouse query failed", err)
	}

	var records []domain.OrderRecord
	records = appendRows(records, resp.Rows)

	pageToken := resp.PageToken
	jobID := resp.JobReference.JobId
	for pageToken != "" {
		page, err := r.service.Jobs.GetQueryResults(r.cfg.ProjectID, jobID).
			PageToken(pageToken).Context(ctx).Do()
		if err != nil {
			return domain.RecordSet{}, apperrors.NewStorageError("warehouse result paging failed", err)
		}
		records = appendRows(records, page.Rows)
		pageToken = page.PageToken
	}

	r.logger.InfoContext(ctx, "warehouse query complete",
		slog.Int("records", len(records)))

	return domain.NewRawSet(records), nil
}

func columnList() string {
	list := ""
	for i, col := range domain.RawColumns {
		if i > 0 {
			list += ", "
		}
		list += col
	}
	return list
}

// appendRows converts BigQuery result rows, positionally aligned with
// RawColumns, into order records. NULL cells become missing.
func appendRows(records []domain.OrderRecord, rows []*bigquery.TableRow) []domain.OrderRecord {
	for _, row := range rows {
		cell := func(i int) (string, bool) {
			if i >= len(row.F) || row.F[i].V == nil {
				return "", false
			}
			s, ok := row.F[i].V.(string)
			return s, ok
		}
		cellPtr := func(i int) *string {
			v, ok := cell(i)
			if !ok {
				return nil
			}
			return &v
		}

		record := domain.OrderRecord{
			ProductName:           cellPtr(2),
			Platform:              cellPtr(6),
			MarketingChannel:      cellPtr(7),
			AccountCreationMethod: cellPtr(8),
			CountryCode:           cellPtr(9),
		}
		record.OrderID, _ = cell(0)
		record.UserID, _ = cell(1)
		record.PurchaseTSRaw, _ = cell(3)
		record.ShipTSRaw, _ = cell(4)
		record.PriceRaw, _ = cell(5)
		records = append(records, record)
	}
	return records
}

func boolPtr(b bool) *bool { return &b }
