package health

import (
	"context"

	"github.com/jonwraymond/readygate/cluster"
)

// Check is the interface for readiness probes over a target of type T.
//
// Contract:
// - Concurrency: Check must be safe to call repeatedly and from any goroutine.
// - State: implementations keep no memory of earlier attempts.
// - Context: network probes must honor cancellation/deadlines.
type Check[T any] interface {
	// Name returns the name of this check.
	Name() string

	// Check performs one attempt against target.
	Check(ctx context.Context, target T) Outcome
}

// Checker is a check against a single resolved service.
type Checker = Check[cluster.Target]

// CheckFunc is an adapter to allow ordinary functions to be used as checks.
type CheckFunc[T any] struct {
	name string
	fn   func(context.Context, T) Outcome
}

// NewCheckFunc creates a new CheckFunc.
func NewCheckFunc[T any](name string, fn func(context.Context, T) Outcome) *CheckFunc[T] {
	return &CheckFunc[T]{name: name, fn: fn}
}

// Name returns the name of this check.
func (f *CheckFunc[T]) Name() string {
	return f.name
}

// Check performs the check.
func (f *CheckFunc[T]) Check(ctx context.Context, target T) Outcome {
	return f.fn(ctx, target)
}
