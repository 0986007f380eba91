package cleaning

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

func TestCoercer_ParseInstant(t *testing.T) {
	c := NewCoercer(DefaultConfig(), slog.Default())

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{
			name: "rfc3339 utc",
			in:   "2024-01-15T10:30:00Z",
			want: timePtr(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)),
		},
		{
			name: "zoned input converted to utc",
			in:   "2024-01-15T10:30:00+02:00",
			want: timePtr(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)),
		},
		{
			name: "naive datetime treated as utc",
			in:   "2024-01-15 10:30:00",
			want: timePtr(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)),
		},
		{
			name: "date only",
			in:   "2024-03-01",
			want: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "slash separated",
			in:   "2024/03/01",
			want: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
		{name: "surrounding whitespace", in: "  2024-03-01  ", want: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{name: "empty is missing", in: "", want: nil},
		{name: "malformed is missing", in: "not-a-date", want: nil},
		{name: "out of range is missing", in: "2024-13-45", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ParseInstant(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %v, got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestCoercer_ParsePrice(t *testing.T) {
	c := NewCoercer(DefaultConfig(), slog.Default())

	tests := []struct {
		name string
		in   string
		want string // empty means missing
	}{
		{name: "plain decimal", in: "19.99", want: "19.99"},
		{name: "integer", in: "100", want: "100"},
		{name: "zero is valid", in: "0", want: "0"},
		{name: "thousands separator", in: "1,299.50", want: "1299.5"},
		{name: "negative is missing", in: "-5.00", want: ""},
		{name: "non-numeric is missing", in: "free", want: ""},
		{name: "empty is missing", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ParsePrice(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
		})
	}
}

func TestCoercer_Coerce(t *testing.T) {
	ctx := context.Background()
	c := NewCoercer(DefaultConfig(), slog.Default())

	set := domain.RecordSet{
		Maturity: domain.MaturityNormalized,
		Records: []domain.OrderRecord{
			{
				OrderID:       "o1",
				UserID:        "u1",
				PurchaseTSRaw: "2024-01-15T10:30:00Z",
				ShipTSRaw:     "2024-01-17 08:00:00",
				PriceRaw:      "49.99",
			},
			{
				OrderID:       "o2",
				UserID:        "u2",
				PurchaseTSRaw: "garbage",
				ShipTSRaw:     "",
				PriceRaw:      "-10",
			},
		},
	}

	out, report, err := c.Coerce(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, domain.MaturityCoerced, out.Maturity)

	first := out.Records[0]
	require.NotNil(t, first.PurchaseAt)
	require.NotNil(t, first.ShipAt)
	require.NotNil(t, first.ShipDate)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), *first.ShipDate)
	require.NotNil(t, first.PriceUSD)

	// Row with a bad purchase instant survives with the field missing.
	second := out.Records[1]
	assert.Nil(t, second.PurchaseAt)
	assert.Nil(t, second.ShipAt)
	assert.Nil(t, second.ShipDate, "ship date projection requires a present ship instant")
	assert.Nil(t, second.PriceUSD)

	assert.Equal(t, 1, report.PurchaseFailures)
	assert.Equal(t, 0, report.ShipFailures, "empty input is missing, not a failure")
	assert.Equal(t, 1, report.PriceFailures)
}

func TestCoercer_RejectsWrongMaturity(t *testing.T) {
	c := NewCoercer(DefaultConfig(), slog.Default())

	_, _, err := c.Coerce(context.Background(), domain.NewRawSet(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalized record set")
}

func timePtr(t time.Time) *time.Time { return &t }
