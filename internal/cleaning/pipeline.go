package cleaning

import (
	"context"
	"log/slog"
	"time"

	"gamezone/pkg/contracts/domain"
)

// Pipeline chains the cleaning stages in strict order:
// raw -> normalized -> coerced -> clean. It carries no state between runs;
// each run is a pure function of its input record set and configuration.
type Pipeline struct {
	normalizer *Normalizer
	coercer    *Coercer
	flagger    *Flagger
	logger     *slog.Logger
}

// NewPipeline creates a cleaning pipeline with the given configuration.
func NewPipeline(cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		normalizer: NewNormalizer(cfg, logger),
		coercer:    NewCoercer(cfg, logger),
		flagger:    NewFlagger(logger),
		logger:     logger,
	}
}

// Run executes all cleaning stages over the raw record set and returns the
// clean set together with the run diagnostics.
func (p *Pipeline) Run(ctx context.Context, set domain.RecordSet) (domain.RecordSet, *RunReport, error) {
	start := time.Now()
	report := &RunReport{Records: set.Len()}

	p.logger.InfoContext(ctx, "starting cleaning pipeline",
		slog.Int("records", set.Len()))

	normalized, normReport, err := p.normalizer.Normalize(ctx, set)
	if err != nil {
		return domain.RecordSet{}, nil, err
	}
	report.Normalize = normReport

	coerced, coerceReport, err := p.coercer.Coerce(ctx, normalized)
	if err != nil {
		return domain.RecordSet{}, nil, err
	}
	report.Coerce = coerceReport

	clean, flagReport, err := p.flagger.Flag(ctx, coerced)
	if err != nil {
		return domain.RecordSet{}, nil, err
	}
	report.Flag = flagReport

	p.logger.InfoContext(ctx, "cleaning pipeline complete",
		slog.Int("records", clean.Len()),
		slog.Duration("duration", time.Since(start)))

	return clean, report, nil
}
