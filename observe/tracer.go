package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/readygate/wait"
)

// WaitMeta identifies a wait for telemetry purposes.
type WaitMeta struct {
	Gate        string // Gate name (optional)
	Index       int    // Position of the wait in its gate
	Description string // Wait description (required)
}

// SpanName returns the deterministic span name for this wait.
// Format: readiness.wait.<description>
func (m WaitMeta) SpanName() string {
	return "readiness.wait." + m.Description
}

func (m WaitMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("readiness.wait.description", m.Description),
		attribute.Int("readiness.wait.index", m.Index),
	}
	if m.Gate != "" {
		attrs = append(attrs, attribute.String("readiness.gate", m.Gate))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with wait-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan and RecordAttempt must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a wait.
	StartSpan(ctx context.Context, meta WaitMeta) (context.Context, trace.Span)

	// RecordAttempt adds an attempt event to the span in ctx.
	RecordAttempt(ctx context.Context, a wait.Attempt)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with wait metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta WaitMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("readiness.wait.error", false))

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// RecordAttempt adds a "readiness.attempt" event.
func (t *tracerImpl) RecordAttempt(ctx context.Context, a wait.Attempt) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("readiness.attempt", trace.WithAttributes(
		attribute.Int("attempt", a.Number),
		attribute.String("outcome", a.Outcome.Status.String()),
		attribute.String("check", a.Outcome.Check),
		attribute.String("detail", a.Outcome.Detail()),
		attribute.Int64("duration_ms", a.Outcome.Duration.Milliseconds()),
	))
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("readiness.wait.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta WaitMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) RecordAttempt(context.Context, wait.Attempt) {}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
