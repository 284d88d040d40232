package probe

import "errors"

// Sentinel errors for probe operations.
var (
	// ErrNoPorts is returned for a service that maps no ports.
	ErrNoPorts = errors.New("probe: service maps no ports")

	// ErrInvalidConfig is returned for a probe that cannot be run as
	// configured.
	ErrInvalidConfig = errors.New("probe: invalid configuration")
)
