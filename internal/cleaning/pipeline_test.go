package cleaning

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamezone/pkg/contracts/domain"
)

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()
	p := NewPipeline(DefaultConfig(), slog.Default())

	set := domain.NewRawSet([]domain.OrderRecord{
		{
			OrderID:       "o1",
			UserID:        "u1",
			ProductName:   strPtr("  Xbox   Series X "),
			Platform:      strPtr("N/A"),
			PurchaseTSRaw: "2024-01-15T10:00:00Z",
			ShipTSRaw:     "2024-01-10T10:00:00Z", // ships before purchase
			PriceRaw:      "499.99",
		},
		{
			OrderID:       "o2",
			UserID:        "u2",
			ProductName:   strPtr("controller"),
			PurchaseTSRaw: "bogus",
			PriceRaw:      "oops",
		},
	})

	clean, report, err := p.Run(ctx, set)
	require.NoError(t, err)

	assert.Equal(t, domain.MaturityClean, clean.Maturity)
	require.Len(t, clean.Records, 2, "coercion failures must not drop rows")

	first := clean.Records[0]
	require.NotNil(t, first.ProductName)
	assert.Equal(t, "xbox series x", *first.ProductName)
	assert.Nil(t, first.Platform)
	assert.True(t, first.ShipBeforePurchase)

	second := clean.Records[1]
	assert.Nil(t, second.PurchaseAt)
	assert.Nil(t, second.PriceUSD)
	assert.False(t, second.ShipBeforePurchase)

	require.NotNil(t, report)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.Normalize.ChangedByColumn[domain.ColProductName])
	assert.Equal(t, 1, report.Coerce.PurchaseFailures)
	assert.Equal(t, 1, report.Coerce.PriceFailures)
	assert.Equal(t, 1, report.Flag.ShipBeforePurchase)
}

func TestPipeline_RejectsNonRawInput(t *testing.T) {
	p := NewPipeline(DefaultConfig(), slog.Default())

	_, _, err := p.Run(context.Background(), domain.RecordSet{Maturity: domain.MaturityCoerced})
	require.Error(t, err)
}

func TestPipeline_InputNotMutated(t *testing.T) {
	ctx := context.Background()
	p := NewPipeline(DefaultConfig(), slog.Default())

	original := strPtr("  Loud  NAME ")
	set := domain.NewRawSet([]domain.OrderRecord{
		{OrderID: "o1", UserID: "u1", ProductName: original, PurchaseTSRaw: "2024-01-01"},
	})

	_, _, err := p.Run(ctx, set)
	require.NoError(t, err)

	assert.Equal(t, "  Loud  NAME ", *original, "stages must produce new record sets, not mutate input")
	assert.Equal(t, domain.MaturityRaw, set.Maturity)
	assert.Nil(t, set.Records[0].PurchaseAt)
}

func TestPipeline_StageOrderProducesShipDateOnlyFromParsedInstant(t *testing.T) {
	ctx := context.Background()
	p := NewPipeline(DefaultConfig(), slog.Default())

	set := domain.NewRawSet([]domain.OrderRecord{
		{OrderID: "o1", UserID: "u1", ShipTSRaw: "2024-06-30 23:59:59"},
	})

	clean, _, err := p.Run(ctx, set)
	require.NoError(t, err)

	r := clean.Records[0]
	require.NotNil(t, r.ShipDate)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), *r.ShipDate)
}
