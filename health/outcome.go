package health

import (
	"fmt"
	"time"
)

// Status is the three-state result of a single probe attempt.
type Status int

const (
	// StatusSuccess indicates the target is ready.
	StatusSuccess Status = iota
	// StatusFailure indicates the target answered but is not ready.
	StatusFailure
	// StatusError indicates the probe itself faulted.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one probe attempt.
//
// Outcomes are values: every helper returns a modified copy, so an outcome
// recorded by a poller is never revised afterwards.
type Outcome struct {
	// Status is the attempt's result.
	Status Status

	// Reason explains a failure, or carries the cause text of an error.
	Reason string

	// Err is the cause of an error outcome, preserved verbatim.
	Err error

	// Check names the check, or sub-check, that produced the outcome.
	Check string

	// Duration is how long the attempt took.
	Duration time.Duration

	// Timestamp is when the attempt finished.
	Timestamp time.Time
}

// Success creates a successful outcome.
func Success() Outcome {
	return Outcome{
		Status:    StatusSuccess,
		Timestamp: time.Now(),
	}
}

// Failure creates a failed outcome with a reason.
func Failure(reason string) Outcome {
	return Outcome{
		Status:    StatusFailure,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// Failuref creates a failed outcome with a formatted reason.
func Failuref(format string, args ...any) Outcome {
	return Failure(fmt.Sprintf(format, args...))
}

// Error creates an error outcome. A nil cause becomes ErrCheckFailed.
func Error(cause error) Outcome {
	if cause == nil {
		cause = ErrCheckFailed
	}
	return Outcome{
		Status:    StatusError,
		Reason:    cause.Error(),
		Err:       cause,
		Timestamp: time.Now(),
	}
}

// FromError maps nil to Success and anything else to Error.
func FromError(err error) Outcome {
	if err == nil {
		return Success()
	}
	return Error(err)
}

// FromBool maps true to Success and false to Failure(reason).
func FromBool(ok bool, reason string) Outcome {
	if ok {
		return Success()
	}
	if reason == "" {
		reason = "not ready"
	}
	return Failure(reason)
}

// IsSuccess reports whether the attempt succeeded.
func (o Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// Detail returns the diagnostic text of a non-success outcome.
func (o Outcome) Detail() string {
	if o.Reason != "" {
		return o.Reason
	}
	if o.Err != nil {
		return o.Err.Error()
	}
	if o.Status == StatusSuccess {
		return ""
	}
	return "no reason given"
}

// String renders the outcome as "status[ (check)]: detail".
func (o Outcome) String() string {
	s := o.Status.String()
	if o.Check != "" {
		s += " (" + o.Check + ")"
	}
	if o.Status == StatusSuccess {
		return s
	}
	return s + ": " + o.Detail()
}

// WithCheck returns a copy attributed to the named check.
func (o Outcome) WithCheck(name string) Outcome {
	o.Check = name
	return o
}

// WithDuration returns a copy with the attempt duration set.
func (o Outcome) WithDuration(d time.Duration) Outcome {
	o.Duration = d
	return o
}
