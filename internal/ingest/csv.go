package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "gamezone/internal/errors"
	"gamezone/pkg/contracts/domain"
)

// CSVReader loads order record sets from CSV files.
type CSVReader struct {
	logger *slog.Logger
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(logger *slog.Logger) *CSVReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVReader{logger: logger}
}

// ReadRaw reads a raw orders CSV into a raw record set. Columns are mapped by
// header name; expected columns absent from the file are reported and left
// missing rather than failing the batch.
func (r *CSVReader) ReadRaw(ctx context.Context, path string) (domain.RecordSet, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RecordSet{}, nil, apperrors.NewMissingInputError(
				"raw orders file not found, export the orders table first", err).WithContext("path", path)
		}
		return domain.RecordSet{}, nil, apperrors.NewStorageError("failed to open raw orders file", err)
	}
	defer file.Close()

	records, missing, err := r.readRaw(file)
	if err != nil {
		return domain.RecordSet{}, nil, err
	}

	r.logger.InfoContext(ctx, "raw orders loaded",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Any("missing_columns", missing))

	return domain.NewRawSet(records), missing, nil
}

// ReadRawDir reads every raw CSV in a directory concurrently and returns one
// combined raw record set. Record order follows the sorted file names so
// repeated runs produce the same set.
func (r *CSVReader) ReadRawDir(ctx context.Context, dir string) (domain.RecordSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.RecordSet{}, apperrors.NewStorageError("failed to read raw orders directory", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return domain.RecordSet{}, apperrors.NewMissingInputError(
			"no raw orders files found, export the orders table first", nil).WithContext("dir", dir)
	}

	batches := make([][]domain.OrderRecord, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			set, _, err := r.ReadRaw(gctx, filepath.Join(dir, name))
			if err != nil {
				return err
			}
			mu.Lock()
			batches[i] = set.Records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RecordSet{}, err
	}

	var all []domain.OrderRecord
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return domain.NewRawSet(all), nil
}

func (r *CSVReader) readRaw(src io.Reader) ([]domain.OrderRecord, []string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, apperrors.NewParsingError("failed to read CSV header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\uFEFF") // BOM from Excel exports
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range domain.RawColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	cell := func(row []string, col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}
	cellPtr := func(row []string, col string) *string {
		v, ok := cell(row, col)
		if !ok {
			return nil
		}
		return &v
	}

	var records []domain.OrderRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewParsingError("failed to read CSV row", err)
		}

		record := domain.OrderRecord{
			ProductName:           cellPtr(row, domain.ColProductName),
			Platform:              cellPtr(row, domain.ColPlatform),
			MarketingChannel:      cellPtr(row, domain.ColMarketingChannel),
			AccountCreationMethod: cellPtr(row, domain.ColAccountCreationMethod),
			CountryCode:           cellPtr(row, domain.ColCountryCode),
		}
		record.OrderID, _ = cell(row, domain.ColOrderID)
		record.UserID, _ = cell(row, domain.ColUserID)
		record.PurchaseTSRaw, _ = cell(row, domain.ColPurchaseTS)
		record.ShipTSRaw, _ = cell(row, domain.ColShipTS)
		record.PriceRaw, _ = cell(row, domain.ColPrice)
		records = append(records, record)
	}
	return records, missing, nil
}

// CleanColumns is the column layout of the persisted clean record set: the
// raw schema plus the ship date projection and the integrity flag.
var CleanColumns = []string{
	domain.ColOrderID,
	domain.ColUserID,
	domain.ColProductName,
	domain.ColPurchaseTS,
	domain.ColShipTS,
	"ship_ts_date",
	"price_usd",
	domain.ColPlatform,
	domain.ColMarketingChannel,
	domain.ColAccountCreationMethod,
	domain.ColCountryCode,
	"ship_before_purchase_flag",
}

// ReadClean reads a persisted clean record set. The file is the output of a
// prior cleaning run; a missing file is a MissingInputError telling the
// caller to run the cleaning stage first.
func (r *CSVReader) ReadClean(ctx context.Context, path string) (domain.RecordSet, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RecordSet{}, apperrors.NewMissingInputError(
				"clean record set not found, run the cleaning stage first", err).WithContext("path", path)
		}
		return domain.RecordSet{}, apperrors.NewStorageError("failed to open clean record set", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(CleanColumns)

	if _, err := reader.Read(); err != nil {
		return domain.RecordSet{}, apperrors.NewParsingError("failed to read clean CSV header", err)
	}

	var records []domain.OrderRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RecordSet{}, apperrors.NewParsingError("failed to read clean CSV row", err)
		}

		record := domain.OrderRecord{
			OrderID:               row[0],
			UserID:                row[1],
			ProductName:           optString(row[2]),
			PurchaseAt:            optInstant(row[3]),
			ShipAt:                optInstant(row[4]),
			ShipDate:              optInstant(row[5]),
			PriceUSD:              optDecimal(row[6]),
			Platform:              optString(row[7]),
			MarketingChannel:      optString(row[8]),
			AccountCreationMethod: optString(row[9]),
			CountryCode:           optString(row[10]),
			ShipBeforePurchase:    row[11] == "true",
		}
		records = append(records, record)
	}

	r.logger.InfoContext(ctx, "clean record set loaded",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return domain.RecordSet{Records: records, Maturity: domain.MaturityClean}, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInstant(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func optDecimal(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
