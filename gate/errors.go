package gate

import (
	"errors"
	"fmt"
)

// Sentinel errors for gate operations.
var (
	// ErrConfiguration is matched by every *ConfigError.
	ErrConfiguration = errors.New("gate: invalid configuration")

	// ErrGateReused is returned when Run is called on a gate that already ran.
	ErrGateReused = errors.New("gate: already used")
)

// ConfigError reports an invalid gate or declaration, naming the offending
// field.
type ConfigError struct {
	// Field is the path of the invalid field, such as "waits[2].check".
	Field string

	// Reason explains what is wrong with it.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "gate: invalid configuration: " + e.Field
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrConfiguration and the underlying error.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

// Invalid is a shorthand for building a *ConfigError.
func Invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
