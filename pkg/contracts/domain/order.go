package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the raw order schema, as exported from the warehouse.
const (
	ColOrderID               = "order_id"
	ColUserID                = "user_id"
	ColProductName           = "product_name"
	ColPurchaseTS            = "purchase_ts"
	ColShipTS                = "ship_ts"
	ColPrice                 = "price"
	ColPlatform              = "platform"
	ColMarketingChannel      = "marketing_channel"
	ColAccountCreationMethod = "account_creation_method"
	ColCountryCode           = "country_code"
)

// RawColumns lists the raw schema columns in canonical order.
var RawColumns = []string{
	ColOrderID,
	ColUserID,
	ColProductName,
	ColPurchaseTS,
	ColShipTS,
	ColPrice,
	ColPlatform,
	ColMarketingChannel,
	ColAccountCreationMethod,
	ColCountryCode,
}

// OrderRecord is a single order line item flowing through the cleaning pipeline.
//
// Raw fields hold the values exactly as ingested. Typed fields are populated by
// the pipeline stages: text fields by the normalizer, instants and price by the
// temporal coercer, the ship-before-purchase flag by the consistency flagger.
// A nil pointer means the value is missing.
type OrderRecord struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`

	// Raw values as read from the source, kept for coercion and diagnostics.
	PurchaseTSRaw string `json:"purchase_ts_raw,omitempty"`
	ShipTSRaw     string `json:"ship_ts_raw,omitempty"`
	PriceRaw      string `json:"price_raw,omitempty"`

	// Free-text categorical fields, nil after normalization when the source
	// value was absent or a recognized null token.
	ProductName           *string `json:"product_name"`
	Platform              *string `json:"platform"`
	MarketingChannel      *string `json:"marketing_channel"`
	AccountCreationMethod *string `json:"account_creation_method"`
	CountryCode           *string `json:"country_code"`

	// Coerced values, always UTC. ShipDate is the date-only projection of
	// ShipAt, valid only when ShipAt is present.
	PurchaseAt *time.Time       `json:"purchase_at"`
	ShipAt     *time.Time       `json:"ship_at"`
	ShipDate   *time.Time       `json:"ship_date"`
	PriceUSD   *decimal.Decimal `json:"price_usd"`

	// ShipBeforePurchase is true when the shipment instant strictly precedes
	// the purchase instant. When either instant is missing the flag is false,
	// not unknown.
	ShipBeforePurchase bool `json:"ship_before_purchase"`
}

// HasPurchase reports whether the record carries a valid purchase instant.
func (r OrderRecord) HasPurchase() bool {
	return r.PurchaseAt != nil
}

// Price returns the coerced price, treating missing as zero. Monetary
// aggregates must not silently drop rows, so missing contributes zero.
func (r OrderRecord) Price() decimal.Decimal {
	if r.PriceUSD == nil {
		return decimal.Zero
	}
	return *r.PriceUSD
}

// Maturity identifies how far a record set has progressed through the
// cleaning pipeline. A later stage must never consume a record set that has
// not passed through all earlier stages.
type Maturity int

const (
	MaturityRaw Maturity = iota
	MaturityNormalized
	MaturityCoerced
	MaturityClean
)

// String returns the maturity level name.
func (m Maturity) String() string {
	switch m {
	case MaturityRaw:
		return "raw"
	case MaturityNormalized:
		return "normalized"
	case MaturityCoerced:
		return "coerced"
	case MaturityClean:
		return "clean"
	default:
		return "unknown"
	}
}

// RecordSet couples a batch of order records with its pipeline maturity.
type RecordSet struct {
	Records  []OrderRecord `json:"records"`
	Maturity Maturity      `json:"maturity"`
}

// NewRawSet wraps freshly ingested records as a raw record set.
func NewRawSet(records []OrderRecord) RecordSet {
	return RecordSet{Records: records, Maturity: MaturityRaw}
}

// Len returns the number of records in the set.
func (s RecordSet) Len() int {
	return len(s.Records)
}
