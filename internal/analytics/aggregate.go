package analytics

import (
	"fmt"
	"time"

	"gamezone/pkg/contracts/domain"
)

// Snapshot returns the maximum present purchase instant across the record
// set. This is the reference "now" for recency: derived from the data for
// reproducibility, never the wall clock. The second return is false when no
// record carries a purchase instant.
func Snapshot(records []domain.OrderRecord) (time.Time, bool) {
	var max time.Time
	found := false
	for _, r := range records {
		if r.PurchaseAt == nil {
			continue
		}
		if !found || r.PurchaseAt.After(max) {
			max = *r.PurchaseAt
			found = true
		}
	}
	return max, found
}

// MonthStart truncates an instant to the first instant of its UTC calendar
// month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// requireClean guards aggregation entry points: a later stage must never run
// on a record set that has not passed through the full cleaning pipeline.
func requireClean(set domain.RecordSet) error {
	if set.Maturity != domain.MaturityClean {
		return fmt.Errorf("aggregation requires a clean record set, got %s", set.Maturity)
	}
	return nil
}
