package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "gamezone/internal/errors"
	"gamezone/pkg/contracts/domain"
)

// ExcelReader loads raw order record sets from .xlsx workbooks, the format
// the operations team hands over when the warehouse export is not available.
type ExcelReader struct {
	logger *slog.Logger
}

// NewExcelReader creates an Excel reader.
func NewExcelReader(logger *slog.Logger) *ExcelReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelReader{logger: logger}
}

// ReadRaw reads the first sheet carrying the order schema into a raw record
// set. Columns are mapped by header name; expected columns absent from the
// sheet are reported and left missing.
func (r *ExcelReader) ReadRaw(ctx context.Context, path string) (domain.RecordSet, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.RecordSet{}, nil, apperrors.NewStorageError("failed to open workbook", err)
	}
	defer f.Close()

	sheet, rows, err := r.findOrderSheet(f)
	if err != nil {
		return domain.RecordSet{}, nil, err
	}

	r.logger.InfoContext(ctx, "found order data sheet",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
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
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
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

	r.logger.InfoContext(ctx, "raw orders loaded from workbook",
		slog.Int("records", len(records)),
		slog.Any("missing_columns", missing))

	return domain.NewRawSet(records), missing, nil
}

// findOrderSheet locates the sheet whose header row looks like the order
// schema: it must mention order_id and user_id.
func (r *ExcelReader) findOrderSheet(f *excelize.File) (string, [][]string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 1 {
			continue
		}
		header := strings.ToLower(strings.Join(rows[0], " "))
		if strings.Contains(header, domain.ColOrderID) && strings.Contains(header, domain.ColUserID) {
			return name, rows, nil
		}
	}
	return "", nil, apperrors.NewParsingError("could not find a sheet with the order schema", nil)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
