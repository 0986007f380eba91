package exporter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// formatDecimal formats a decimal value for CSV output with exactly 2
// decimal places so values like 13.4 appear as 13.40.
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatOptDecimal formats a nullable decimal; missing values become empty
// cells.
func formatOptDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// formatInstant formats a timestamp as RFC 3339 UTC.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatOptInstant formats a nullable timestamp; missing values become empty
// cells.
func formatOptInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatInstant(*t)
}

// formatDate formats a timestamp as a calendar date.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// formatMonth formats a month-start timestamp as YYYY-MM.
func formatMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatOptString formats a nullable string; missing values become empty
// cells.
func formatOptString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
