package cleaning

import (
	"gamezone/internal/config"
	"gamezone/pkg/contracts/domain"
)

// Config holds the immutable cleaning pipeline configuration. It is read-only
// for the duration of a run and safe to share across concurrent invocations.
type Config struct {
	// TextColumns lists the free-text columns to normalize.
	TextColumns []string

	// NullTokens are the recognized null-token spellings, matched against the
	// canonical form of a value.
	NullTokens map[string]struct{}

	// TimeLayouts are tried in order when coercing timestamp fields.
	TimeLayouts []string
}

// DefaultConfig returns the cleaning configuration used by the reference
// analysis.
func DefaultConfig() Config {
	return Config{
		TextColumns: config.DefaultTextColumns(),
		NullTokens:  config.DefaultNullTokens(),
		TimeLayouts: DefaultTimeLayouts(),
	}
}

// DefaultTimeLayouts returns the timestamp layouts accepted by the coercer.
// Layouts without a zone designator are interpreted as UTC.
func DefaultTimeLayouts() []string {
	return []string{
		"2006-01-02T15:04:05Z07:00", // RFC 3339
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
	}
}

// NormalizeReport carries per-column diagnostics from the normalizer stage.
type NormalizeReport struct {
	// ChangedByColumn counts values whose canonical form differs from the
	// input, per column.
	ChangedByColumn map[string]int `json:"changed_by_column"`

	// SkippedColumns lists configured columns absent from the record schema.
	SkippedColumns []string `json:"skipped_columns,omitempty"`
}

// CoerceReport carries per-field diagnostics from the coercion stage.
type CoerceReport struct {
	PurchaseFailures int `json:"purchase_failures"`
	ShipFailures     int `json:"ship_failures"`
	PriceFailures    int `json:"price_failures"`
}

// FlagReport carries diagnostics from the flagger stage.
type FlagReport struct {
	ShipBeforePurchase int `json:"ship_before_purchase"`
}

// RunReport aggregates the stage diagnostics for one pipeline run.
type RunReport struct {
	Records   int             `json:"records"`
	Normalize NormalizeReport `json:"normalize"`
	Coerce    CoerceReport    `json:"coerce"`
	Flag      FlagReport      `json:"flag"`
}

// textColumnAccessor returns a pointer to the *string field backing the named
// text column, or false when the column is not part of the record schema.
func textColumnAccessor(r *domain.OrderRecord, column string) (**string, bool) {
	switch column {
	case domain.ColProductName:
		return &r.ProductName, true
	case domain.ColPlatform:
		return &r.Platform, true
	case domain.ColMarketingChannel:
		return &r.MarketingChannel, true
	case domain.ColAccountCreationMethod:
		return &r.AccountCreationMethod, true
	case domain.ColCountryCode:
		return &r.CountryCode, true
	default:
		return nil, false
	}
}
