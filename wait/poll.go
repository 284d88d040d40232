package wait

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/jonwraymond/readygate/health"
)

// minAttemptBudget bounds an attempt that starts with no time left, such as
// the single attempt of a zero timeout poll.
const minAttemptBudget = time.Second

// PollConfig configures a single call to PollUntilReady.
type PollConfig struct {
	// Description names the wait in errors.
	// Default: the check's name
	Description string

	// Timeout bounds the whole poll. Zero means one attempt.
	Timeout time.Duration

	// Interval is the pause between attempts.
	Interval time.Duration

	// AttemptTimeout bounds a single attempt.
	// Default: the time left before Timeout, but at least one second
	AttemptTimeout time.Duration

	// OnAttempt is called after every attempt, successful or not.
	OnAttempt func(attempt int, out health.Outcome)
}

// Attempt describes one finished attempt for an AttemptObserver.
type Attempt struct {
	Description string
	Number      int
	Outcome     health.Outcome
	Elapsed     time.Duration
}

// AttemptObserver receives every attempt made by pollers running under a
// context it was attached to.
type AttemptObserver func(ctx context.Context, a Attempt)

type observerKey struct{}

// WithAttemptObserver returns a context that delivers attempts to obs in
// addition to any observers already attached to ctx.
func WithAttemptObserver(ctx context.Context, obs AttemptObserver) context.Context {
	if obs == nil {
		return ctx
	}
	parent := attemptObserver(ctx)
	if parent == nil {
		return context.WithValue(ctx, observerKey{}, obs)
	}
	return context.WithValue(ctx, observerKey{}, AttemptObserver(func(ctx context.Context, a Attempt) {
		parent(ctx, a)
		obs(ctx, a)
	}))
}

func attemptObserver(ctx context.Context) AttemptObserver {
	obs, _ := ctx.Value(observerKey{}).(AttemptObserver)
	return obs
}

// PollUntilReady runs check against target until it succeeds, or returns a
// *TimeoutError once cfg.Timeout has elapsed without success.
//
// Outcomes before the last one are discarded. If ctx is canceled while the
// poller sleeps between attempts, the poll ends with an error wrapping
// ctx.Err().
func PollUntilReady[T any](ctx context.Context, check health.Check[T], target T, cfg PollConfig) error {
	if check == nil {
		return fmt.Errorf("%w: nil check", ErrInvalidConfig)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, cfg.Timeout)
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("%w: negative interval %s", ErrInvalidConfig, cfg.Interval)
	}
	if cfg.Description == "" {
		cfg.Description = check.Name()
	}

	p := &poller[T]{check: check, target: target, cfg: cfg, observe: attemptObserver(ctx)}
	return p.run(ctx)
}

type poller[T any] struct {
	check   health.Check[T]
	target  T
	cfg     PollConfig
	observe AttemptObserver

	// inflight is the result channel of an abandoned attempt that has not
	// returned yet.
	inflight chan health.Outcome
}

func (p *poller[T]) run(ctx context.Context) error {
	start := time.Now()
	var last health.Outcome

	for n := 1; ; n++ {
		out := p.attempt(ctx, p.budget(start))
		p.notify(ctx, n, out, time.Since(start))
		if out.IsSuccess() {
			return nil
		}
		last = out

		if time.Since(start) >= p.cfg.Timeout {
			return p.timeout(start, n, last)
		}
		if err := sleep(ctx, p.cfg.Interval); err != nil {
			return fmt.Errorf("wait: stopped waiting for %q after %d attempts (%s): %w",
				p.cfg.Description, n, last, err)
		}
		if time.Since(start) >= p.cfg.Timeout {
			return p.timeout(start, n, last)
		}
	}
}

func (p *poller[T]) budget(start time.Time) time.Duration {
	if p.cfg.AttemptTimeout > 0 {
		return p.cfg.AttemptTimeout
	}
	// An attempt may run into the last interval but never past it.
	if remaining := p.cfg.Timeout - time.Since(start); remaining > 0 {
		return remaining + p.cfg.Interval
	}
	return minAttemptBudget
}

func (p *poller[T]) attempt(ctx context.Context, budget time.Duration) health.Outcome {
	ctx, cancel := context.WithTimeoutCause(ctx, budget, ErrAttemptTimeout)
	defer cancel()
	start := time.Now()

	// Never run two attempts at once: the abandoned one must finish first.
	if p.inflight != nil {
		select {
		case <-p.inflight:
			p.inflight = nil
		case <-ctx.Done():
			return p.finish(health.Error(context.Cause(ctx)), start)
		}
	}

	done := make(chan health.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- health.Error(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		done <- p.check.Check(ctx, p.target)
	}()

	select {
	case out := <-done:
		return p.finish(out, start)
	case <-ctx.Done():
		p.inflight = done
		return p.finish(health.Error(context.Cause(ctx)), start)
	}
}

func (p *poller[T]) finish(out health.Outcome, start time.Time) health.Outcome {
	if out.Check == "" {
		out = out.WithCheck(p.check.Name())
	}
	return out.WithDuration(time.Since(start))
}

func (p *poller[T]) notify(ctx context.Context, n int, out health.Outcome, elapsed time.Duration) {
	if p.cfg.OnAttempt != nil {
		p.cfg.OnAttempt(n, out)
	}
	if p.observe != nil {
		p.observe(ctx, Attempt{
			Description: p.cfg.Description,
			Number:      n,
			Outcome:     out,
			Elapsed:     elapsed,
		})
	}
}

func (p *poller[T]) timeout(start time.Time, attempts int, last health.Outcome) error {
	return &TimeoutError{
		Description: p.cfg.Description,
		Timeout:     p.cfg.Timeout,
		Elapsed:     time.Since(start),
		Attempts:    attempts,
		Last:        last,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
