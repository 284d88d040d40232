package observe

import (
	"context"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
	"github.com/jonwraymond/readygate/wait"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "attempt", Value: i})
	}
}

func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "filtered", Field{Key: "attempt", Value: i})
	}
}

func BenchmarkLogger_WithWait(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := WaitMeta{Gate: "api", Index: 1, Description: "postgres"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.WithWait(meta)
	}
}

func BenchmarkMetrics_RecordAttempt(b *testing.B) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	meta := WaitMeta{Description: "db"}
	out := health.Failure("refused")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordAttempt(ctx, meta, out)
	}
}

func BenchmarkMiddleware_Wrap(b *testing.B) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	metrics, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	mw := NewMiddleware(newTracer(tp.Tracer("bench")), metrics, NewLoggerWithWriter("info", io.Discard))

	w, err := wait.New(wait.Config{
		Description: "ready",
		Check: wait.ClusterCheckFunc("ready", func(context.Context, cluster.Provider) health.Outcome {
			return health.Success()
		}),
		Timeout: time.Second,
	})
	if err != nil {
		b.Fatal(err)
	}
	wrapped := mw.Wrap(w, WaitMeta{})
	provider, _ := cluster.NewStatic()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = wrapped.WaitUntilReady(ctx, provider)
	}
}

func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
