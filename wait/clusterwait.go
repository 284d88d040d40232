package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

const (
	// DefaultTimeout is used when Config.Timeout is zero.
	DefaultTimeout = 2 * time.Minute

	// DefaultInterval is used when Config.Interval is zero.
	DefaultInterval = 500 * time.Millisecond
)

// Waiter blocks until some part of a cluster is ready.
//
// Contract:
//   - Description returns a stable, human readable name.
//   - WaitUntilReady returns nil once ready, or an error naming the
//     description and the last observed outcome.
//   - Implementations must be safe to call from one goroutine at a time.
type Waiter interface {
	Description() string
	WaitUntilReady(ctx context.Context, provider cluster.Provider) error
}

// WaiterFunc adapts a function to the Waiter interface.
type WaiterFunc struct {
	description string
	fn          func(context.Context, cluster.Provider) error
}

// NewWaiterFunc creates a Waiter from a description and a function.
func NewWaiterFunc(description string, fn func(context.Context, cluster.Provider) error) *WaiterFunc {
	return &WaiterFunc{description: description, fn: fn}
}

// Description returns the waiter's description.
func (f *WaiterFunc) Description() string {
	return f.description
}

// WaitUntilReady calls the wrapped function.
func (f *WaiterFunc) WaitUntilReady(ctx context.Context, provider cluster.Provider) error {
	return f.fn(ctx, provider)
}

// Config configures a ClusterWait.
type Config struct {
	// Description names the wait in errors and telemetry.
	// Default: Check.Name()
	Description string

	// Check is evaluated against the cluster provider. Required.
	Check health.Check[cluster.Provider]

	// Timeout bounds the whole wait. Negative values are rejected.
	// Default: DefaultTimeout
	Timeout time.Duration

	// Interval is the pause between attempts. Values above Timeout are
	// clamped to Timeout.
	// Default: DefaultInterval
	Interval time.Duration

	// AttemptTimeout bounds a single attempt.
	// Default: the time left before Timeout
	AttemptTimeout time.Duration
}

// ClusterWait polls a cluster-level check until it succeeds.
//
// A ClusterWait is immutable once constructed and may be reused across
// gates.
type ClusterWait struct {
	config Config
}

// New validates cfg, applies defaults and returns a ClusterWait.
func New(cfg Config) (*ClusterWait, error) {
	if cfg.Check == nil {
		return nil, fmt.Errorf("%w: check is required", ErrInvalidConfig)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, cfg.Timeout)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, cfg.Interval)
	}
	if cfg.AttemptTimeout < 0 {
		return nil, fmt.Errorf("%w: attempt timeout must be positive, got %s", ErrInvalidConfig, cfg.AttemptTimeout)
	}

	// Apply defaults
	if cfg.Description == "" {
		cfg.Description = cfg.Check.Name()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Interval > cfg.Timeout {
		cfg.Interval = cfg.Timeout
	}

	return &ClusterWait{config: cfg}, nil
}

// Description returns the wait's description.
func (w *ClusterWait) Description() string {
	return w.config.Description
}

// Config returns the effective configuration.
func (w *ClusterWait) Config() Config {
	return w.config
}

// WaitUntilReady polls the check with provider as its target.
func (w *ClusterWait) WaitUntilReady(ctx context.Context, provider cluster.Provider) error {
	if provider == nil {
		return fmt.Errorf("%w: nil provider for %q", ErrInvalidConfig, w.config.Description)
	}
	return PollUntilReady(ctx, w.config.Check, provider, PollConfig{
		Description:    w.config.Description,
		Timeout:        w.config.Timeout,
		Interval:       w.config.Interval,
		AttemptTimeout: w.config.AttemptTimeout,
	})
}

var (
	_ Waiter = (*ClusterWait)(nil)
	_ Waiter = (*WaiterFunc)(nil)
)
