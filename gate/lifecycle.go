package gate

import (
	"context"
	"errors"
	"fmt"
)

// Lifecycle is a resource held for the duration of a gate run.
//
// Contract:
//   - Acquire is called once, before any wait.
//   - Release is called exactly once for every successful Acquire, on every
//     exit path, in reverse acquisition order.
//   - Release receives a context that is not canceled with the run.
type Lifecycle interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// LifecycleFunc adapts a pair of functions to the Lifecycle interface.
// Either function may be nil.
type LifecycleFunc struct {
	AcquireFunc func(ctx context.Context) error
	ReleaseFunc func(ctx context.Context) error
}

// Acquire calls AcquireFunc.
func (f LifecycleFunc) Acquire(ctx context.Context) error {
	if f.AcquireFunc == nil {
		return nil
	}
	return f.AcquireFunc(ctx)
}

// Release calls ReleaseFunc.
func (f LifecycleFunc) Release(ctx context.Context) error {
	if f.ReleaseFunc == nil {
		return nil
	}
	return f.ReleaseFunc(ctx)
}

// acquire acquires every lifecycle in order. On failure the ones already
// acquired are released before returning.
func acquire(ctx context.Context, lifecycles []Lifecycle) (func(context.Context) error, error) {
	held := make([]Lifecycle, 0, len(lifecycles))

	release := func(ctx context.Context) error {
		var errs []error
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		held = nil
		return errors.Join(errs...)
	}

	for i, l := range lifecycles {
		if err := l.Acquire(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("gate: acquire lifecycle %d: %w", i, err),
				release(context.WithoutCancel(ctx)))
		}
		held = append(held, l)
	}
	return release, nil
}
