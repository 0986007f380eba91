package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

// OTelProviders bundles the configured OpenTelemetry providers.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

// InitializeOTel sets up tracing and metrics. Metrics are exported through
// the Prometheus registry served at /metrics; traces go to stdout when
// enabled and are sampled away otherwise.
func InitializeOTel(serviceName, version string, enableTraces bool) (*OTelProviders, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)
	otel.SetMeterProvider(meterProvider)

	var tracerProvider *sdktrace.TracerProvider
	if enableTraces {
		traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(traceExporter),
		)
	} else {
		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.NeverSample()),
		)
	}
	otel.SetTracerProvider(tracerProvider)

	return &OTelProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}

// Shutdown flushes and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var firstErr error
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Tracer returns the pipeline tracer.
func Tracer() trace.Tracer {
	return otel.Tracer("gamezone/pipeline")
}

// PipelineMetrics holds the business metrics of the order pipeline.
type PipelineMetrics struct {
	RunsTotal        metric.Int64Counter
	RecordsCleaned   metric.Int64Counter
	CoercionFailures metric.Int64Counter
	RunDuration      metric.Float64Histogram
}

// NewPipelineMetrics registers the pipeline instruments on the global meter.
func NewPipelineMetrics() (*PipelineMetrics, error) {
	meter := otel.Meter("gamezone/pipeline")

	runs, err := meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Completed pipeline runs by outcome"))
	if err != nil {
		return nil, err
	}
	cleaned, err := meter.Int64Counter("pipeline_records_cleaned_total",
		metric.WithDescription("Records passed through the cleaning pipeline"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("pipeline_coercion_failures_total",
		metric.WithDescription("Field values that failed timestamp or price coercion"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("pipeline_run_duration_seconds",
		metric.WithDescription("Wall-clock duration of pipeline runs"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:        runs,
		RecordsCleaned:   cleaned,
		CoercionFailures: failures,
		RunDuration:      duration,
	}, nil
}

// RecordRun records one finished run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, outcome string, records int, coercionFailures int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RecordsCleaned.Add(ctx, int64(records))
	m.CoercionFailures.Add(ctx, int64(coercionFailures))
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}
