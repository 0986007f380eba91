package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamezone/internal/infrastructure"
)

// Broadcaster receives run lifecycle events and progress updates. The web
// layer forwards them to WebSocket subscribers; a nil broadcaster is valid
// for CLI use.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Manager owns the run registry and drives step execution.
type Manager struct {
	mu          sync.RWMutex
	runs        map[string]*RunState
	steps       []Step
	broadcaster Broadcaster
	metrics     *infrastructure.PipelineMetrics
	stepTimeout time.Duration
	logger      *slog.Logger
}

// NewManager creates a run manager executing the given steps in order.
func NewManager(steps []Step, broadcaster Broadcaster, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runs:        make(map[string]*RunState),
		steps:       steps,
		broadcaster: broadcaster,
		stepTimeout: DefaultStepTimeout,
		logger:      logger,
	}
}

// SetMetrics attaches the pipeline business metrics. Optional; a nil
// receiver disables recording.
func (m *Manager) SetMetrics(metrics *infrastructure.PipelineMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = metrics
}

// SetStepTimeout overrides the per-step timeout.
func (m *Manager) SetStepTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.stepTimeout = d
	}
}

// Execute runs the full pipeline for one request and returns the final run
// state. Steps run sequentially; the first failure stops the run and marks
// the remaining steps skipped.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunState, error) {
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	state := NewRunState(id, req)
	for _, step := range m.steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.mu.Lock()
	m.runs[id] = state
	m.mu.Unlock()

	state.Start()
	m.broadcast(EventTypeRunStatus, state.Response())

	m.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", id),
		slog.Int("steps", len(m.steps)))

	failed := false
	for _, step := range m.steps {
		stepState := state.GetStep(step.ID())

		if failed {
			stepState.Skip("previous step failed")
			continue
		}

		if err := m.executeStep(ctx, step, state); err != nil {
			m.logger.ErrorContext(ctx, "pipeline step failed",
				slog.String("run_id", id),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			stepState.Fail(err)
			state.Fail(fmt.Errorf("step %s: %w", step.ID(), err))
			m.broadcast(EventTypeRunError, state.Response())
			failed = true
			continue
		}

		stepState.Complete()
		m.broadcast(EventTypeRunProgress, ProgressUpdate{
			RunID:    id,
			StepID:   step.ID(),
			Progress: 100,
			Message:  "completed",
		})
	}

	if failed {
		m.recordRun(ctx, state, "failed")
		return state, state.Error
	}

	state.Complete()
	m.recordRun(ctx, state, "completed")
	m.broadcast(EventTypeRunComplete, state.Response())

	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", id),
		slog.Duration("duration", state.Duration()))

	return state, nil
}

func (m *Manager) executeStep(ctx context.Context, step Step, state *RunState) error {
	if err := step.Validate(state); err != nil {
		return fmt.Errorf("validation: %w", err)
	}

	stepCtx, cancel := context.WithTimeout(ctx, m.stepTimeout)
	defer cancel()

	stepState := state.GetStep(step.ID())
	stepState.Start()
	m.broadcast(EventTypeRunProgress, ProgressUpdate{
		RunID:   state.ID,
		StepID:  step.ID(),
		Message: "started",
	})

	return step.Execute(stepCtx, state)
}

// GetRun returns the state of one run.
func (m *Manager) GetRun(id string) (*RunState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	return run, ok
}

// ListRuns returns every known run, newest first.
func (m *Manager) ListRuns() []*RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*RunState, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.After(runs[j].StartTime)
	})
	return runs
}

func (m *Manager) recordRun(ctx context.Context, state *RunState, outcome string) {
	if m.metrics == nil {
		return
	}

	records, failures := 0, 0
	if step := state.GetStep(StepIDClean); step != nil {
		snap := step.Snapshot()
		if n, ok := snap.Metadata["records"].(int); ok {
			records = n
		}
		for _, key := range []string{"purchase_failures", "ship_failures", "price_failures"} {
			if n, ok := snap.Metadata[key].(int); ok {
				failures += n
			}
		}
	}
	m.metrics.RecordRun(ctx, outcome, records, failures, state.Duration())
}

func (m *Manager) broadcast(eventType string, payload any) {
	if m.broadcaster == nil {
		return
	}
	m.broadcaster.Broadcast(eventType, payload)
}
