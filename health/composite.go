package health

import (
	"context"
	"strings"
)

// All returns a check that succeeds only when every sub-check succeeds.
//
// Sub-checks run in order. The first non-success outcome is returned as is,
// attributed to the sub-check that produced it; later sub-checks are not run.
// Nil sub-checks are skipped.
func All[T any](checks ...Check[T]) Check[T] {
	return &composite[T]{kind: "all", checks: compact(checks)}
}

// Any returns a check that succeeds when at least one sub-check succeeds.
//
// Sub-checks run in order and evaluation stops at the first success. If none
// succeed, the last sub-check's outcome is returned: the most recent failure
// is the most relevant diagnostic. Nil sub-checks are skipped.
func Any[T any](checks ...Check[T]) Check[T] {
	return &composite[T]{kind: "any", checks: compact(checks)}
}

type composite[T any] struct {
	kind   string
	checks []Check[T]
}

func (c *composite[T]) Name() string {
	names := make([]string, len(c.checks))
	for i, check := range c.checks {
		names[i] = check.Name()
	}
	return c.kind + "(" + strings.Join(names, ", ") + ")"
}

func (c *composite[T]) Check(ctx context.Context, target T) Outcome {
	if c.kind == "all" {
		return c.checkAll(ctx, target)
	}
	return c.checkAny(ctx, target)
}

func (c *composite[T]) checkAll(ctx context.Context, target T) Outcome {
	for _, check := range c.checks {
		out := check.Check(ctx, target)
		if !out.IsSuccess() {
			return attribute(out, check)
		}
	}
	return Success()
}

func (c *composite[T]) checkAny(ctx context.Context, target T) Outcome {
	if len(c.checks) == 0 {
		return Failure(ErrNoChecks.Error())
	}

	var last Outcome
	for _, check := range c.checks {
		out := check.Check(ctx, target)
		if out.IsSuccess() {
			return out
		}
		last = attribute(out, check)
	}
	return last
}

// attribute keeps the innermost attribution when composites are nested.
func attribute[T any](out Outcome, check Check[T]) Outcome {
	if out.Check != "" {
		return out
	}
	return out.WithCheck(check.Name())
}

func compact[T any](checks []Check[T]) []Check[T] {
	out := make([]Check[T], 0, len(checks))
	for _, c := range checks {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
