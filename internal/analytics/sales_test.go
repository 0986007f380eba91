package analytics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamezone/pkg/contracts/domain"
)

func TestAggregator_DailySales(t *testing.T) {
	ctx := context.Background()
	a := NewAggregator(slog.Default())

	morning := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 21, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	set := cleanSet([]domain.OrderRecord{
		{OrderID: "o1", UserID: "a", PurchaseAt: &morning, PriceUSD: decPtr("10")},
		{OrderID: "o2", UserID: "b", PurchaseAt: &evening, PriceUSD: decPtr("15")},
		{OrderID: "o3", UserID: "c", PurchaseAt: &nextDay, PriceUSD: decPtr("7")},
		{OrderID: "o4", UserID: "d", PurchaseAt: &nextDay}, // missing price counts as zero
		{OrderID: "o5", UserID: "e", PriceUSD: decPtr("99")}, // no purchase instant, no bucket
	})

	rows, err := a.DailySales(ctx, set)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.True(t, decimal.RequireFromString("25").Equal(rows[0].TotalSales))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rows[1].Date)
	assert.True(t, decimal.RequireFromString("7").Equal(rows[1].TotalSales))
}

func TestAggregator_TopCustomersByLTV(t *testing.T) {
	ctx := context.Background()
	a := NewAggregator(slog.Default())

	set := cleanSet([]domain.OrderRecord{
		record("o1", "carol", "2024-01-01", "50"),
		record("o2", "alice", "2024-01-01", "100"),
		record("o3", "bob", "2024-01-01", "100"),
		record("o4", "dave", "2024-01-01", "10"),
	})

	rows, err := a.TopCustomersByLTV(ctx, set, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Equal LTV breaks by user ID ascending.
	assert.Equal(t, "alice", rows[0].UserID)
	assert.Equal(t, "bob", rows[1].UserID)
	assert.Equal(t, "carol", rows[2].UserID)
}

func TestAggregator_TopCustomersByLTV_KLargerThanSet(t *testing.T) {
	ctx := context.Background()
	a := NewAggregator(slog.Default())

	set := cleanSet([]domain.OrderRecord{
		record("o1", "a", "2024-01-01", "1"),
	})

	rows, err := a.TopCustomersByLTV(ctx, set, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
