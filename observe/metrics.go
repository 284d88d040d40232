package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/readygate/health"
)

// Metrics records readiness metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordWait records a finished wait with its duration and error status.
	RecordWait(ctx context.Context, meta WaitMeta, duration time.Duration, err error)

	// RecordAttempt records one probe attempt of a wait.
	RecordAttempt(ctx context.Context, meta WaitMeta, out health.Outcome)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	failureCount metric.Int64Counter
	durationHist metric.Float64Histogram
	attemptCount metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"readiness.wait.total",
		metric.WithDescription("Total number of finished waits"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		"readiness.wait.failures",
		metric.WithDescription("Total number of waits that did not become ready"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"readiness.wait.duration_ms",
		metric.WithDescription("Time spent waiting in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"readiness.probe.attempts",
		metric.WithDescription("Total number of probe attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		failureCount: failureCount,
		durationHist: durationHist,
		attemptCount: attemptCount,
	}, nil
}

// RecordWait records metrics for a finished wait.
func (m *metricsImpl) RecordWait(ctx context.Context, meta WaitMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.metricAttributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.failureCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordAttempt counts an attempt, labelled with its outcome.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta WaitMeta, out health.Outcome) {
	attrs := append(meta.metricAttributes(), attribute.String("outcome", out.Status.String()))
	m.attemptCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// metricAttributes leaves out the index, which would only add cardinality.
func (m WaitMeta) metricAttributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("readiness.wait.description", m.Description)}
	if m.Gate != "" {
		attrs = append(attrs, attribute.String("readiness.gate", m.Gate))
	}
	return attrs
}

type noopMetrics struct{}

func (m *noopMetrics) RecordWait(context.Context, WaitMeta, time.Duration, error) {}

func (m *noopMetrics) RecordAttempt(context.Context, WaitMeta, health.Outcome) {}
