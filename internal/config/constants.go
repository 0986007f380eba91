package config

import "time"

// Application constants for the Gamezone order analytics pipeline.
const (
	AppName    = "Gamezone Order Analytics"
	AppVersion = "1.2.0"

	// Churn classification
	DefaultChurnThresholdDays = 90

	// Leaderboard sizes observed in the reporting surface
	DefaultTopProducts  = 5
	DefaultTopCustomers = 10

	// Network timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WarehouseTimeout    = 5 * time.Minute
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// Operation timeouts
	DefaultStageTimeout     = 10 * time.Minute
	DefaultOperationTimeout = 30 * time.Minute

	// File paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultRawDir     = "data/raw"
	DefaultReportsDir = "data/reports"

	// Well-known interchange files
	RawOrdersCSV   = "orders_raw.csv"
	CleanOrdersCSV = "orders_clean.csv"
)

// DefaultNullTokens are the recognized null-token spellings. Matching is
// against the canonical (trimmed, collapsed, lowercased) form, so any casing
// or whitespace variant of these maps to missing.
func DefaultNullTokens() map[string]struct{} {
	return map[string]struct{}{
		"":               {},
		"none":           {},
		"n/a":            {},
		"na":             {},
		"null":           {},
		"unknown":        {},
		"undefined":      {},
		"not available":  {},
		"not applicable": {},
	}
}

// DefaultTextColumns are the free-text columns normalized by the cleaning
// pipeline unless the caller overrides the set.
func DefaultTextColumns() []string {
	return []string{
		"product_name",
		"platform",
		"marketing_channel",
		"account_creation_method",
		"country_code",
	}
}
