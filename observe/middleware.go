package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/wait"
)

// Middleware wraps waits and gates with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: wrapped waiters are as safe as the waiters they wrap.
//   - Context: the wait's span is carried in the context given to the
//     wrapped waiter.
//   - Errors: errors from wrapped waiters are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap returns a waiter that runs w inside a span, records its attempts and
// result, and logs the outcome. An empty meta.Description is filled in from
// w.
func (m *Middleware) Wrap(w wait.Waiter, meta WaitMeta) wait.Waiter {
	if meta.Description == "" {
		meta.Description = w.Description()
	}
	return &observedWaiter{inner: w, meta: meta, mw: m}
}

// WrapAll wraps every waiter, numbering them in order.
func (m *Middleware) WrapAll(gateName string, waits []wait.Waiter) []wait.Waiter {
	wrapped := make([]wait.Waiter, len(waits))
	for i, w := range waits {
		if w == nil {
			continue
		}
		wrapped[i] = m.Wrap(w, WaitMeta{Gate: gateName, Index: i})
	}
	return wrapped
}

type observedWaiter struct {
	inner wait.Waiter
	meta  WaitMeta
	mw    *Middleware
}

func (o *observedWaiter) Description() string {
	return o.inner.Description()
}

func (o *observedWaiter) WaitUntilReady(ctx context.Context, provider cluster.Provider) error {
	ctx, span := o.mw.tracer.StartSpan(ctx, o.meta)
	logger := o.mw.logger.WithWait(o.meta)

	ctx = wait.WithAttemptObserver(ctx, func(ctx context.Context, a wait.Attempt) {
		o.mw.tracer.RecordAttempt(ctx, a)
		o.mw.metrics.RecordAttempt(ctx, o.meta, a.Outcome)
		if !a.Outcome.IsSuccess() {
			logger.Debug(ctx, "not ready yet",
				Field{Key: "attempt", Value: a.Number},
				Field{Key: "outcome", Value: a.Outcome.String()},
				Field{Key: "elapsed_ms", Value: a.Elapsed.Milliseconds()},
			)
		}
	})

	start := time.Now()
	err := o.inner.WaitUntilReady(ctx, provider)
	duration := time.Since(start)

	o.mw.tracer.EndSpan(span, err)
	o.mw.metrics.RecordWait(ctx, o.meta, duration, err)

	fields := []Field{{Key: "duration_ms", Value: float64(duration.Milliseconds())}}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "wait failed", fields...)
	} else {
		logger.Info(ctx, "wait ready", fields...)
	}
	return err
}

// Lifecycle returns a gate lifecycle that logs when the gate run starts and
// ends.
func (m *Middleware) Lifecycle(gateName string) gate.Lifecycle {
	var start time.Time
	return gate.LifecycleFunc{
		AcquireFunc: func(ctx context.Context) error {
			start = time.Now()
			m.logger.Info(ctx, "gate started", Field{Key: "gate", Value: gateName})
			return nil
		},
		ReleaseFunc: func(ctx context.Context) error {
			m.logger.Info(ctx, "gate finished",
				Field{Key: "gate", Value: gateName},
				Field{Key: "duration_ms", Value: float64(time.Since(start).Milliseconds())},
			)
			return nil
		},
	}
}

// Transitions returns a gate transition callback that logs state changes.
func (m *Middleware) Transitions() func(gate.Transition) {
	return func(t gate.Transition) {
		ctx := context.Background()
		fields := []Field{
			{Key: "gate", Value: t.Gate},
			{Key: "from", Value: t.From.String()},
			{Key: "to", Value: t.To.String()},
		}
		if t.Index >= 0 {
			fields = append(fields,
				Field{Key: "wait.index", Value: t.Index},
				Field{Key: "wait.description", Value: t.Description},
			)
		}

		switch t.To {
		case gate.StateFailed:
			if t.Err != nil {
				fields = append(fields, Field{Key: "error", Value: t.Err.Error()})
			}
			m.logger.Error(ctx, "gate failed", fields...)
		case gate.StateRunning:
			m.logger.Info(ctx, "gate open", fields...)
		default:
			m.logger.Debug(ctx, "gate transition", fields...)
		}
	}
}
