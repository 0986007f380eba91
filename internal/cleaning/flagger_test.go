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

func TestFlagger_Flag(t *testing.T) {
	ctx := context.Background()
	f := NewFlagger(slog.Default())

	purchase := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	before := purchase.Add(-24 * time.Hour)
	after := purchase.Add(48 * time.Hour)

	set := domain.RecordSet{
		Maturity: domain.MaturityCoerced,
		Records: []domain.OrderRecord{
			{OrderID: "o1", PurchaseAt: &purchase, ShipAt: &after},   // normal
			{OrderID: "o2", PurchaseAt: &purchase, ShipAt: &before},  // violation
			{OrderID: "o3", PurchaseAt: &purchase, ShipAt: nil},      // missing ship
			{OrderID: "o4", PurchaseAt: nil, ShipAt: &before},        // missing purchase
			{OrderID: "o5", PurchaseAt: &purchase, ShipAt: &purchase}, // equal instants
		},
	}

	out, report, err := f.Flag(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, domain.MaturityClean, out.Maturity)

	assert.False(t, out.Records[0].ShipBeforePurchase)
	assert.True(t, out.Records[1].ShipBeforePurchase)
	assert.False(t, out.Records[2].ShipBeforePurchase, "missing ship instant yields false, not unknown")
	assert.False(t, out.Records[3].ShipBeforePurchase, "missing purchase instant yields false, not unknown")
	assert.False(t, out.Records[4].ShipBeforePurchase, "strict comparison, equal instants not flagged")

	assert.Equal(t, 1, report.ShipBeforePurchase)
}

func TestFlagger_FlagCorrectnessProperty(t *testing.T) {
	// For all rows with both instants present the flag must equal
	// ship < purchase; for all others it must be false.
	ctx := context.Background()
	f := NewFlagger(slog.Default())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []domain.OrderRecord
	for i := 0; i < 48; i++ {
		p := base.Add(time.Duration(i) * time.Hour)
		s := base.Add(time.Duration(47-i) * time.Hour)
		records = append(records, domain.OrderRecord{PurchaseAt: &p, ShipAt: &s})
	}
	records = append(records, domain.OrderRecord{PurchaseAt: &base}, domain.OrderRecord{ShipAt: &base})

	out, _, err := f.Flag(ctx, domain.RecordSet{Maturity: domain.MaturityCoerced, Records: records})
	require.NoError(t, err)

	for i, r := range out.Records {
		if r.ShipAt != nil && r.PurchaseAt != nil {
			assert.Equal(t, r.ShipAt.Before(*r.PurchaseAt), r.ShipBeforePurchase, "row %d", i)
		} else {
			assert.False(t, r.ShipBeforePurchase, "row %d", i)
		}
	}
}

func TestFlagger_RejectsWrongMaturity(t *testing.T) {
	f := NewFlagger(slog.Default())

	_, _, err := f.Flag(context.Background(), domain.NewRawSet(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coerced record set")
}
