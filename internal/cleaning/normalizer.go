package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gamezone/pkg/contracts/domain"
)

// Normalizer canonicalizes free-text fields and maps recognized null tokens
// to missing.
type Normalizer struct {
	columns    []string
	nullTokens map[string]struct{}
	logger     *slog.Logger
}

// NewNormalizer creates a normalizer for the configured text columns.
func NewNormalizer(cfg Config, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		columns:    cfg.TextColumns,
		nullTokens: cfg.NullTokens,
		logger:     logger,
	}
}

// Canonical returns the canonical form of a free-text value: leading and
// trailing whitespace trimmed, runs of whitespace collapsed to a single
// space, lowercased. Whitespace handling is ASCII-style; this is a known
// simplification, not a Unicode-correct normalizer.
func Canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizeValue canonicalizes one value, returning nil when the canonical
// form is a recognized null token.
func (n *Normalizer) normalizeValue(value string) *string {
	canon := Canonical(value)
	if _, isNull := n.nullTokens[canon]; isNull {
		return nil
	}
	return &canon
}

// Normalize returns a new record set with every configured text column
// normalized, plus a per-column report of changed values. Already-missing
// values stay missing, non-listed columns are untouched, and configured
// columns absent from the schema are skipped and reported.
func (n *Normalizer) Normalize(ctx context.Context, set domain.RecordSet) (domain.RecordSet, NormalizeReport, error) {
	if set.Maturity != domain.MaturityRaw {
		return domain.RecordSet{}, NormalizeReport{}, fmt.Errorf("normalizer expects a raw record set, got %s", set.Maturity)
	}

	report := NormalizeReport{ChangedByColumn: make(map[string]int, len(n.columns))}

	var columns []string
	probe := domain.OrderRecord{}
	for _, col := range n.columns {
		if _, ok := textColumnAccessor(&probe, col); !ok {
			report.SkippedColumns = append(report.SkippedColumns, col)
			continue
		}
		columns = append(columns, col)
		report.ChangedByColumn[col] = 0
	}

	if len(report.SkippedColumns) > 0 {
		n.logger.WarnContext(ctx, "skipping columns not present in schema",
			slog.Any("columns", report.SkippedColumns))
	}

	out := make([]domain.OrderRecord, len(set.Records))
	for i := range set.Records {
		record := set.Records[i]
		for _, col := range columns {
			field, _ := textColumnAccessor(&record, col)
			if *field == nil {
				continue
			}
			normalized := n.normalizeValue(**field)
			if normalized == nil || **field != *normalized {
				report.ChangedByColumn[col]++
			}
			*field = normalized
		}
		out[i] = record
	}

	for _, col := range columns {
		n.logger.InfoContext(ctx, "column normalized",
			slog.String("column", col),
			slog.Int("values_changed", report.ChangedByColumn[col]))
	}

	return domain.RecordSet{Records: out, Maturity: domain.MaturityNormalized}, report, nil
}
