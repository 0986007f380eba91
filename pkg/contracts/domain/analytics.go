package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RFMRow holds the recency/frequency/monetary features for one customer,
// derived from the clean record set against a single snapshot instant.
type RFMRow struct {
	UserID        string          `json:"user_id"`
	LastPurchase  time.Time       `json:"last_purchase"`
	Frequency     int             `json:"frequency"`
	MonetaryValue decimal.Decimal `json:"monetary_value"`
	RecencyDays   int             `json:"recency_days"`
	Churned       bool            `json:"churned"`
}

// DailySalesRow is total sales for one calendar day (UTC).
type DailySalesRow struct {
	Date       time.Time       `json:"date"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// ProductRevenueRow is total revenue attributed to one product.
type ProductRevenueRow struct {
	ProductName string          `json:"product_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// ProductTrendRow is total sales for one product in one calendar month
// (UTC, first instant of the month).
type ProductTrendRow struct {
	Month       time.Time       `json:"month"`
	ProductName string          `json:"product_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// CustomerLTVRow is cumulative monetary value attributed to one customer.
type CustomerLTVRow struct {
	UserID string          `json:"user_id"`
	LTV    decimal.Decimal `json:"ltv"`
}

// RecencyBucket is one bin of the recency histogram served alongside the
// RFM report.
type RecencyBucket struct {
	FromDays  int `json:"from_days"`
	ToDays    int `json:"to_days"` // exclusive; -1 for the open-ended last bucket
	Customers int `json:"customers"`
}
