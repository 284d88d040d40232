package gate

import (
	"sync"
	"time"
)

// maxHistory bounds the transitions kept by a Tracker.
const maxHistory = 64

// Snapshot is a point-in-time copy of a Tracker's state.
type Snapshot struct {
	Gate        string
	State       State
	Index       int
	Description string
	Err         error
	Since       time.Time
	History     []Transition
}

// Ready reports whether every wait has succeeded.
func (s Snapshot) Ready() bool {
	return s.State == StateRunning || s.State == StateDone
}

// Tracker keeps the latest state of a gate. Register it with
// WithTransitions(tracker.Observe). It is safe for concurrent use.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a tracker in the pending state.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{State: StatePending, Index: -1, Since: time.Now()}}
}

// Observe records a transition.
func (t *Tracker) Observe(tr Transition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Gate = tr.Gate
	t.snap.State = tr.To
	t.snap.Err = tr.Err
	t.snap.Since = tr.At
	if tr.To == StateWaiting || (tr.To == StateFailed && tr.Index >= 0) {
		t.snap.Index = tr.Index
		t.snap.Description = tr.Description
	}

	t.snap.History = append(t.snap.History, tr)
	if len(t.snap.History) > maxHistory {
		t.snap.History = t.snap.History[len(t.snap.History)-maxHistory:]
	}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.snap
	s.History = append([]Transition(nil), t.snap.History...)
	return s
}
