package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gamezone/pkg/contracts/domain"
)

// ProductRevenue sums revenue per product, ordered by revenue descending
// with ties broken by product name ascending. Rows with a missing product
// name have no group key and are excluded. Pass k > 0 to keep only the top
// k products; the same total ordering drives the cut, so repeated runs on
// identical input select the same entries.
func (a *Aggregator) ProductRevenue(ctx context.Context, set domain.RecordSet, k int) ([]domain.ProductRevenueRow, error) {
	if err := requireClean(set); err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, r := range set.Records {
		if r.ProductName == nil {
			continue
		}
		totals[*r.ProductName] = totals[*r.ProductName].Add(r.Price())
	}

	rows := make([]domain.ProductRevenueRow, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, domain.ProductRevenueRow{ProductName: name, TotalSales: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].TotalSales.Cmp(rows[j].TotalSales); c != 0 {
			return c > 0
		}
		return rows[i].ProductName < rows[j].ProductName
	})

	if k > 0 && k < len(rows) {
		rows = rows[:k]
	}

	a.logger.InfoContext(ctx, "product revenue aggregation complete",
		slog.Int("products", len(totals)),
		slog.Int("returned", len(rows)))

	return rows, nil
}

// MonthlyTrends computes month-by-month sales for the top k products by
// total revenue. The month bucket is the first instant of the UTC calendar
// month of the purchase instant. Rows are ordered by month ascending, then
// product name ascending.
func (a *Aggregator) MonthlyTrends(ctx context.Context, set domain.RecordSet, k int) ([]domain.ProductTrendRow, error) {
	if err := requireClean(set); err != nil {
		return nil, err
	}

	top, err := a.ProductRevenue(ctx, set, k)
	if err != nil {
		return nil, err
	}
	topSet := make(map[string]struct{}, len(top))
	for _, p := range top {
		topSet[p.ProductName] = struct{}{}
	}

	type key struct {
		month   time.Time
		product string
	}
	totals := make(map[key]decimal.Decimal)
	for _, r := range set.Records {
		if r.ProductName == nil || r.PurchaseAt == nil {
			continue
		}
		if _, ok := topSet[*r.ProductName]; !ok {
			continue
		}
		k := key{month: MonthStart(*r.PurchaseAt), product: *r.ProductName}
		totals[k] = totals[k].Add(r.Price())
	}

	rows := make([]domain.ProductTrendRow, 0, len(totals))
	for k, total := range totals {
		rows = append(rows, domain.ProductTrendRow{Month: k.month, ProductName: k.product, TotalSales: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Month.Equal(rows[j].Month) {
			return rows[i].Month.Before(rows[j].Month)
		}
		return rows[i].ProductName < rows[j].ProductName
	})

	a.logger.InfoContext(ctx, "monthly trend aggregation complete",
		slog.Int("top_products", len(top)),
		slog.Int("rows", len(rows)))

	return rows, nil
}
