package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gamezone/pkg/contracts/domain"
)

// DailySales sums revenue per UTC calendar day of the purchase instant,
// sorted by date ascending. Rows without a purchase instant have no day
// bucket and are excluded.
func (a *Aggregator) DailySales(ctx context.Context, set domain.RecordSet) ([]domain.DailySalesRow, error) {
	if err := requireClean(set); err != nil {
		return nil, err
	}

	totals := make(map[time.Time]decimal.Decimal)
	for _, r := range set.Records {
		if r.PurchaseAt == nil {
			continue
		}
		day := time.Date(r.PurchaseAt.Year(), r.PurchaseAt.Month(), r.PurchaseAt.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] = totals[day].Add(r.Price())
	}

	rows := make([]domain.DailySalesRow, 0, len(totals))
	for day, total := range totals {
		rows = append(rows, domain.DailySalesRow{Date: day, TotalSales: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	a.logger.InfoContext(ctx, "daily sales aggregation complete",
		slog.Int("days", len(rows)))

	return rows, nil
}

// TopCustomersByLTV sums lifetime value per customer and returns the top k,
// ordered by LTV descending with ties broken by user ID ascending.
func (a *Aggregator) TopCustomersByLTV(ctx context.Context, set domain.RecordSet, k int) ([]domain.CustomerLTVRow, error) {
	if err := requireClean(set); err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, r := range set.Records {
		totals[r.UserID] = totals[r.UserID].Add(r.Price())
	}

	rows := make([]domain.CustomerLTVRow, 0, len(totals))
	for userID, ltv := range totals {
		rows = append(rows, domain.CustomerLTVRow{UserID: userID, LTV: ltv})
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].LTV.Cmp(rows[j].LTV); c != 0 {
			return c > 0
		}
		return rows[i].UserID < rows[j].UserID
	})

	if k > 0 && k < len(rows) {
		rows = rows[:k]
	}

	a.logger.InfoContext(ctx, "customer ltv aggregation complete",
		slog.Int("customers", len(totals)),
		slog.Int("returned", len(rows)))

	return rows, nil
}
