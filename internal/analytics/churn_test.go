package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Defaults(t *testing.T) {
	assert.Equal(t, 90, NewClassifier(0).ThresholdDays())
	assert.Equal(t, 90, NewClassifier(-5).ThresholdDays())
	assert.Equal(t, 30, NewClassifier(30).ThresholdDays())
}

func TestClassifier_RecencyDays(t *testing.T) {
	c := NewClassifier(90)
	snapshot := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want int
	}{
		{name: "same instant", last: snapshot, want: 0},
		{name: "exactly sixty days", last: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), want: 60},
		{name: "partial day floors down", last: time.Date(2024, 2, 28, 6, 0, 0, 0, time.UTC), want: 1},
		{name: "under one day floors to zero", last: time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.RecencyDays(snapshot, tt.last))
		})
	}
}

func TestClassifier_ChurnBoundary(t *testing.T) {
	c := NewClassifier(90)

	// Strict comparison: exactly at the threshold is NOT churned.
	assert.False(t, c.Churned(89))
	assert.False(t, c.Churned(90))
	assert.True(t, c.Churned(91))
}
