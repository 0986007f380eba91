package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gamezone/pkg/contracts/domain"
)

// Aggregator computes derived feature rows from the clean record set.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a feature aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// RFM computes one row per customer: last purchase instant (max), frequency
// (distinct order count), monetary value (price sum, missing as zero), plus
// recency and the churn label against the snapshot instant.
//
// Every customer present in the record set appears, so monetary totals are
// conserved. A customer with records but no parseable purchase instant has
// RecencyDays -1 (recency unknown) and is never labeled churned. Rows are
// sorted by user ID ascending.
func (a *Aggregator) RFM(ctx context.Context, set domain.RecordSet, snapshot time.Time, classifier *Classifier) ([]domain.RFMRow, error) {
	if err := requireClean(set); err != nil {
		return nil, err
	}

	type acc struct {
		last     *time.Time
		orders   map[string]struct{}
		monetary decimal.Decimal
	}

	byUser := make(map[string]*acc)
	for _, r := range set.Records {
		u, ok := byUser[r.UserID]
		if !ok {
			u = &acc{orders: make(map[string]struct{})}
			byUser[r.UserID] = u
		}
		u.orders[r.OrderID] = struct{}{}
		u.monetary = u.monetary.Add(r.Price())
		if r.PurchaseAt != nil && (u.last == nil || r.PurchaseAt.After(*u.last)) {
			t := *r.PurchaseAt
			u.last = &t
		}
	}

	rows := make([]domain.RFMRow, 0, len(byUser))
	for userID, u := range byUser {
		row := domain.RFMRow{
			UserID:        userID,
			Frequency:     len(u.orders),
			MonetaryValue: u.monetary,
			RecencyDays:   -1,
		}
		if u.last != nil {
			row.LastPurchase = *u.last
			row.RecencyDays = classifier.RecencyDays(snapshot, *u.last)
			row.Churned = classifier.Churned(row.RecencyDays)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].UserID < rows[j].UserID
	})

	a.logger.InfoContext(ctx, "rfm aggregation complete",
		slog.Int("customers", len(rows)),
		slog.Time("snapshot", snapshot),
		slog.Int("threshold_days", classifier.ThresholdDays()))

	return rows, nil
}

// RecencyHistogram bins RFM rows by recency in fixed-width buckets, with an
// open-ended final bucket. Customers with unknown recency are excluded.
func RecencyHistogram(rows []domain.RFMRow, widthDays int) []domain.RecencyBucket {
	if widthDays <= 0 {
		widthDays = 30
	}

	maxRecency := -1
	for _, r := range rows {
		if r.RecencyDays > maxRecency {
			maxRecency = r.RecencyDays
		}
	}
	if maxRecency < 0 {
		return nil
	}

	numBuckets := maxRecency/widthDays + 1
	buckets := make([]domain.RecencyBucket, numBuckets)
	for i := range buckets {
		buckets[i] = domain.RecencyBucket{FromDays: i * widthDays, ToDays: (i + 1) * widthDays}
	}
	buckets[numBuckets-1].ToDays = -1

	for _, r := range rows {
		if r.RecencyDays < 0 {
			continue
		}
		buckets[r.RecencyDays/widthDays].Customers++
	}
	return buckets
}
