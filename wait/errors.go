package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/readygate/health"
)

// Sentinel errors for wait operations.
var (
	// ErrReadinessTimeout is matched by every error returned when a check did
	// not succeed before its timeout.
	ErrReadinessTimeout = errors.New("wait: readiness timed out")

	// ErrAttemptTimeout is the cause of an attempt that overran its deadline.
	ErrAttemptTimeout = errors.New("wait: attempt exceeded its deadline")

	// ErrInvalidConfig is returned for a wait that cannot be constructed.
	ErrInvalidConfig = errors.New("wait: invalid configuration")
)

// TimeoutError reports a check that never succeeded within its timeout.
//
// It matches [ErrReadinessTimeout] and, when the last outcome carried a cause,
// that cause as well.
type TimeoutError struct {
	// Description names what was being waited for.
	Description string

	// Timeout is the configured limit.
	Timeout time.Duration

	// Elapsed is how long the poller actually ran.
	Elapsed time.Duration

	// Attempts is the number of attempts made.
	Attempts int

	// Last is the outcome of the final attempt.
	Last health.Outcome
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("readiness: timed out after %s waiting for %q (%d attempts): %s",
		e.Timeout, e.Description, e.Attempts, e.Last)
}

// Unwrap exposes the sentinel and the last outcome's cause.
func (e *TimeoutError) Unwrap() []error {
	if e.Last.Err == nil {
		return []error{ErrReadinessTimeout}
	}
	return []error{ErrReadinessTimeout, e.Last.Err}
}

// PanicError is the cause of an attempt whose check panicked.
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("wait: check panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
