package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "panekit"

// Metrics holds all OTEL metric instruments for panekit.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Transform counters (partitioned by transformation type + outcome)
	Transforms metric.Int64Counter

	// Result cache counters
	ResultCacheHits   metric.Int64Counter
	ResultCacheMisses metric.Int64Counter

	// Command execution
	CommandRuns     metric.Int64Counter
	CommandDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Transforms, err = meter.Int64Counter("transforms.total",
		metric.WithDescription("Total pane transformations partitioned by type (command, workflow) and outcome (ok, filtered, error)"))
	if err != nil {
		return nil, err
	}

	m.ResultCacheHits, err = meter.Int64Counter("result_cache.hits",
		metric.WithDescription("Number of transformation results served from the cache"))
	if err != nil {
		return nil, err
	}

	m.ResultCacheMisses, err = meter.Int64Counter("result_cache.misses",
		metric.WithDescription("Number of transformations executed because no cached result was usable"))
	if err != nil {
		return nil, err
	}

	m.CommandRuns, err = meter.Int64Counter("commands.total",
		metric.WithDescription("Total shell commands spawned for command panes"))
	if err != nil {
		return nil, err
	}

	m.CommandDuration, err = meter.Float64Histogram("commands.duration",
		metric.WithDescription("Wall-clock duration of shell command executions"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTransform records one transformation with its type and outcome.
func (m *Metrics) RecordTransform(ctx context.Context, transformType, outcome string) {
	if m == nil {
		return
	}
	m.Transforms.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transform.type", transformType),
		attribute.String("transform.outcome", outcome),
	))
}

// RecordCacheHit records a result cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.ResultCacheHits.Add(ctx, 1)
}

// RecordCacheMiss records a result cache miss.
func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.ResultCacheMisses.Add(ctx, 1)
}

// RecordCommand records one shell command run and its duration.
func (m *Metrics) RecordCommand(ctx context.Context, elapsed time.Duration, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("command.ok", ok))
	m.CommandRuns.Add(ctx, 1, attrs)
	m.CommandDuration.Record(ctx, elapsed.Seconds(), attrs)
}
