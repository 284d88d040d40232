package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no service with the requested name is known.
	ErrNotFound = errors.New("cluster: service not found")

	// ErrPortNotMapped indicates the target does not expose the requested internal port.
	ErrPortNotMapped = errors.New("cluster: port not mapped")

	// ErrDuplicateService indicates two services were registered under one name.
	ErrDuplicateService = errors.New("cluster: duplicate service")

	// ErrInvalidService indicates a service registration is missing required fields.
	ErrInvalidService = errors.New("cluster: invalid service")
)

// NotFoundError reports a failed lookup by name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cluster: service %q not found", e.Name)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
