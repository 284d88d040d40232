package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

func alwaysCluster(out health.Outcome) health.Check[cluster.Provider] {
	return ClusterCheckFunc("always", func(context.Context, cluster.Provider) health.Outcome {
		return out
	})
}

func TestNew_Defaults(t *testing.T) {
	w, err := New(Config{Check: alwaysCluster(health.Success())})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cfg := w.Config()
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
	if w.Description() != "always" {
		t.Errorf("Description() = %q, want check name", w.Description())
	}
}

func TestNew_ClampsInterval(t *testing.T) {
	w, err := New(Config{
		Check:    alwaysCluster(health.Success()),
		Timeout:  time.Second,
		Interval: time.Minute,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := w.Config().Interval; got != time.Second {
		t.Errorf("Interval = %v, want %v", got, time.Second)
	}
}

func TestNew_Invalid(t *testing.T) {
	ok := alwaysCluster(health.Success())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no check", Config{}},
		{"negative timeout", Config{Check: ok, Timeout: -time.Second}},
		{"negative interval", Config{Check: ok, Interval: -time.Second}},
		{"negative attempt timeout", Config{Check: ok, AttemptTimeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestClusterWait_WaitUntilReady(t *testing.T) {
	provider, _ := cluster.NewStatic(cluster.Service{Name: "db"})

	var seen cluster.Provider
	check := ClusterCheckFunc("capture", func(_ context.Context, p cluster.Provider) health.Outcome {
		seen = p
		return health.Success()
	})
	w, _ := New(Config{Check: check})

	if err := w.WaitUntilReady(context.Background(), provider); err != nil {
		t.Fatalf("WaitUntilReady() error = %v", err)
	}
	if seen != provider {
		t.Error("check did not receive the provider")
	}
}

func TestClusterWait_TimeoutNamesDescription(t *testing.T) {
	provider, _ := cluster.NewStatic()
	w, _ := New(Config{
		Description: "queue drained",
		Check:       alwaysCluster(health.Failure("12 messages left")),
		Timeout:     20 * time.Millisecond,
		Interval:    5 * time.Millisecond,
	})

	err := w.WaitUntilReady(context.Background(), provider)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if te.Description != "queue drained" || te.Last.Reason != "12 messages left" {
		t.Errorf("TimeoutError = %+v", te)
	}
}

func TestClusterWait_NilProvider(t *testing.T) {
	w, _ := New(Config{Check: alwaysCluster(health.Success())})

	if err := w.WaitUntilReady(context.Background(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("WaitUntilReady(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestWaiterFunc(t *testing.T) {
	want := errors.New("custom")
	w := NewWaiterFunc("custom wait", func(context.Context, cluster.Provider) error {
		return want
	})

	if w.Description() != "custom wait" {
		t.Errorf("Description() = %q, want 'custom wait'", w.Description())
	}
	if err := w.WaitUntilReady(context.Background(), nil); err != want {
		t.Errorf("WaitUntilReady() error = %v, want %v", err, want)
	}
}
