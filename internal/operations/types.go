package operations

import (
	"time"
)

// Step identifiers
const (
	StepIDLoad      = "load"
	StepIDClean     = "clean"
	StepIDAggregate = "aggregate"
	StepIDExport    = "export"
)

// Step names
const (
	StepNameLoad      = "Order Loading"
	StepNameClean     = "Order Cleaning"
	StepNameAggregate = "Feature Aggregation"
	StepNameExport    = "Report Export"
)

// Context keys for run state
const (
	ContextKeyRawSet      = "raw_set"
	ContextKeyCleanSet    = "clean_set"
	ContextKeyRunReport   = "run_report"
	ContextKeyRFM         = "rfm"
	ContextKeyDailySales  = "daily_sales"
	ContextKeyTopProducts = "top_products"
	ContextKeyTrends      = "trends"
	ContextKeyTopLTV      = "top_ltv"
	ContextKeyHistogram   = "recency_histogram"
)

// WebSocket event types
const (
	EventTypeRunStatus   = "run:status"
	EventTypeRunProgress = "run:progress"
	EventTypeRunComplete = "run:complete"
	EventTypeRunError    = "run:error"
)

// DefaultStepTimeout bounds a single step. Loading dominates in practice;
// cleaning and aggregation are in-memory passes.
const DefaultStepTimeout = 10 * time.Minute

// RunRequest is a request to execute a pipeline run.
type RunRequest struct {
	ID         string         `json:"id"`
	Source     string         `json:"source" validate:"omitempty,oneof=csv excel warehouse"`
	InputPath  string         `json:"input_path,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// RunResponse is the response from a pipeline run.
type RunResponse struct {
	ID       string                  `json:"id"`
	Status   RunStatus               `json:"status"`
	Duration time.Duration           `json:"duration"`
	Steps    map[string]StepSnapshot `json:"steps"`
	Error    string                  `json:"error,omitempty"`
}

// ProgressUpdate is a progress report emitted by a running step.
type ProgressUpdate struct {
	RunID    string         `json:"run_id"`
	StepID   string         `json:"step_id"`
	Progress float64        `json:"progress"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
