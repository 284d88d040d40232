package health

import "errors"

var (
	// ErrCheckFailed indicates a check reported a failure without a cause.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrNoChecks indicates a composite check has nothing to evaluate.
	ErrNoChecks = errors.New("health: no checks to satisfy")
)
