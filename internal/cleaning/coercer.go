package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamezone/pkg/contracts/domain"
)

// Coercer parses raw timestamp and price fields into their typed forms.
// Failures are never fatal: the field becomes missing and the row proceeds.
type Coercer struct {
	layouts []string
	logger  *slog.Logger
}

// NewCoercer creates a coercer using the configured timestamp layouts.
func NewCoercer(cfg Config, logger *slog.Logger) *Coercer {
	if logger == nil {
		logger = slog.Default()
	}
	layouts := cfg.TimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts()
	}
	return &Coercer{layouts: layouts, logger: logger}
}

// ParseInstant parses a raw timestamp into a UTC instant. Inputs carrying a
// zone designator are converted to UTC; naive inputs are treated as already
// UTC. Returns nil on failure.
func (c *Coercer) ParseInstant(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range c.layouts {
		// ParseInLocation honors an explicit zone in the input and falls back
		// to UTC for naive inputs.
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// ParsePrice parses a raw price into a non-negative decimal. Negative or
// non-numeric input is treated as missing, not rejected.
func (c *Coercer) ParsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

// Coerce returns a new record set with purchase/ship instants, the date-only
// ship projection, and the price populated from the raw fields. The ship date
// projection is only set when the ship instant itself parsed.
func (c *Coercer) Coerce(ctx context.Context, set domain.RecordSet) (domain.RecordSet, CoerceReport, error) {
	if set.Maturity != domain.MaturityNormalized {
		return domain.RecordSet{}, CoerceReport{}, fmt.Errorf("coercer expects a normalized record set, got %s", set.Maturity)
	}

	var report CoerceReport
	out := make([]domain.OrderRecord, len(set.Records))
	for i := range set.Records {
		record := set.Records[i]

		record.PurchaseAt = c.ParseInstant(record.PurchaseTSRaw)
		if record.PurchaseAt == nil && strings.TrimSpace(record.PurchaseTSRaw) != "" {
			report.PurchaseFailures++
		}

		record.ShipAt = c.ParseInstant(record.ShipTSRaw)
		if record.ShipAt == nil && strings.TrimSpace(record.ShipTSRaw) != "" {
			report.ShipFailures++
		}
		record.ShipDate = truncateToDate(record.ShipAt)

		record.PriceUSD = c.ParsePrice(record.PriceRaw)
		if record.PriceUSD == nil && strings.TrimSpace(record.PriceRaw) != "" {
			report.PriceFailures++
		}

		out[i] = record
	}

	c.logger.InfoContext(ctx, "timestamp and price coercion complete",
		slog.Int("records", len(out)),
		slog.Int("purchase_failures", report.PurchaseFailures),
		slog.Int("ship_failures", report.ShipFailures),
		slog.Int("price_failures", report.PriceFailures))

	return domain.RecordSet{Records: out, Maturity: domain.MaturityCoerced}, report, nil
}

// truncateToDate projects an instant onto its UTC calendar date. Returns nil
// when the instant is missing.
func truncateToDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
