// Package observe instruments readiness gates with logs, traces and metrics.
//
// It is a pure instrumentation library: the gate, wait and health packages
// never log or emit telemetry themselves. Instead they expose hooks, which
// this package implements:
//
//   - [Middleware.Wrap] decorates a [wait.Waiter] with a span, metrics and
//     a log line, and subscribes to its attempts through
//     [wait.WithAttemptObserver].
//   - [Middleware.Lifecycle] is a [gate.Lifecycle] that logs the start and
//     end of a gate run.
//   - [Middleware.Transitions] logs gate state changes.
//
// # Setup
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "readygate",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 1},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(context.Background())
//
//	mw, err := observe.MiddlewareFromObserver(obs)
//	if err != nil {
//	    return err
//	}
//	g, err := gate.New(provider, mw.WrapAll("migrations", waits),
//	    gate.WithLifecycle(mw.Lifecycle("migrations")),
//	    gate.WithTransitions(mw.Transitions()),
//	)
//
// Logs are JSON lines written by zap. Fields whose keys are listed in
// [RedactedFields] are replaced with "[REDACTED]".
package observe
