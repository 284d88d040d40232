package gate

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/wait"
)

// State is a position in the gate's state machine.
type State int32

const (
	// StatePending means Run has not started.
	StatePending State = iota
	// StateWaiting means a wait is in progress.
	StateWaiting
	// StateRunning means every wait succeeded and the action is running.
	StateRunning
	// StateDone means the action returned without error.
	StateDone
	// StateFailed means a wait, a lifecycle or the action failed.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateWaiting:
		return "waiting"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transition describes one state change.
type Transition struct {
	Gate string
	From State
	To   State

	// Index is the position of the current wait, or -1 outside of waiting.
	Index int

	// Description is the current wait's description.
	Description string

	// Err is set on transitions to StateFailed.
	Err error

	At time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithLifecycle adds a resource acquired before the waits and released after
// the run.
func WithLifecycle(l Lifecycle) Option {
	return func(g *Gate) {
		if l != nil {
			g.lifecycles = append(g.lifecycles, l)
		}
	}
}

// WithCleanup registers fn to run once when the run ends, however it ends.
func WithCleanup(fn func(ctx context.Context) error) Option {
	return WithLifecycle(LifecycleFunc{ReleaseFunc: fn})
}

// WithTransitions registers a callback for every state change. Callbacks run
// synchronously on the goroutine calling Run.
func WithTransitions(fn func(Transition)) Option {
	return func(g *Gate) {
		if fn != nil {
			g.observers = append(g.observers, fn)
		}
	}
}

// WithName names the gate in transitions and telemetry.
func WithName(name string) Option {
	return func(g *Gate) {
		g.name = name
	}
}

// Gate runs an action once every wait has succeeded.
type Gate struct {
	name       string
	provider   cluster.Provider
	waits      []wait.Waiter
	lifecycles []Lifecycle
	observers  []func(Transition)

	used  atomic.Bool
	mu    sync.Mutex
	state State
}

// New validates its arguments and creates a gate. The waits slice is copied.
func New(provider cluster.Provider, waits []wait.Waiter, opts ...Option) (*Gate, error) {
	if provider == nil {
		return nil, Invalid("provider", "a cluster provider is required")
	}
	if len(waits) == 0 {
		return nil, Invalid("waits", "at least one wait is required")
	}
	for i, w := range waits {
		if w == nil {
			return nil, Invalid(fmt.Sprintf("waits[%d]", i), "wait is nil")
		}
	}

	g := &Gate{
		name:     "gate",
		provider: provider,
		waits:    slices.Clone(waits),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the gate's name.
func (g *Gate) Name() string {
	return g.name
}

// Waits returns a copy of the gate's waits.
func (g *Gate) Waits() []wait.Waiter {
	return slices.Clone(g.waits)
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Run acquires the lifecycles, waits for every wait in order and then runs
// action exactly once.
//
// The first failing wait's error is returned and the action is not run. An
// error from action is returned unchanged. A release error is returned only
// when everything else succeeded.
func (g *Gate) Run(ctx context.Context, action func(ctx context.Context) error) (err error) {
	if !g.used.CompareAndSwap(false, true) {
		return ErrGateReused
	}
	if action == nil {
		return Invalid("action", "an action is required")
	}

	release, err := acquire(ctx, g.lifecycles)
	if err != nil {
		g.transition(StateFailed, -1, "", err)
		return err
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil && err == nil {
			err = fmt.Errorf("gate: release: %w", rerr)
		}
	}()

	for i, w := range g.waits {
		g.transition(StateWaiting, i, w.Description(), nil)
		if err := w.WaitUntilReady(ctx, g.provider); err != nil {
			g.transition(StateFailed, i, w.Description(), err)
			return err
		}
	}

	g.transition(StateRunning, -1, "", nil)
	if err := action(ctx); err != nil {
		g.transition(StateFailed, -1, "", err)
		return err
	}
	g.transition(StateDone, -1, "", nil)
	return nil
}

func (g *Gate) transition(to State, index int, description string, err error) {
	g.mu.Lock()
	from := g.state
	g.state = to
	g.mu.Unlock()

	t := Transition{
		Gate:        g.name,
		From:        from,
		To:          to,
		Index:       index,
		Description: description,
		Err:         err,
		At:          time.Now(),
	}
	for _, fn := range g.observers {
		fn(t)
	}
}
