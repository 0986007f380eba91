package analytics

import (
	"time"

	"gamezone/internal/config"
)

// Classifier labels customers active or churned by comparing recency against
// an inactivity threshold. The comparison is strict: a customer whose recency
// equals the threshold is still active.
type Classifier struct {
	thresholdDays int
}

// NewClassifier creates a churn classifier. A non-positive threshold falls
// back to the default of 90 days.
func NewClassifier(thresholdDays int) *Classifier {
	if thresholdDays <= 0 {
		thresholdDays = config.DefaultChurnThresholdDays
	}
	return &Classifier{thresholdDays: thresholdDays}
}

// ThresholdDays returns the configured inactivity threshold.
func (c *Classifier) ThresholdDays() int {
	return c.thresholdDays
}

// RecencyDays returns the whole-day difference between the snapshot instant
// and the last purchase, rounded down.
func (c *Classifier) RecencyDays(snapshot, lastPurchase time.Time) int {
	return int(snapshot.Sub(lastPurchase).Hours() / 24)
}

// Churned reports whether a recency value crosses the threshold.
func (c *Classifier) Churned(recencyDays int) bool {
	return recencyDays > c.thresholdDays
}
