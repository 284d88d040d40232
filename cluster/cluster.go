package cluster

import (
	"context"
	"net"
	"strconv"
	"strings"
)

// Port is one internal port of a service and the address it is reachable on.
type Port struct {
	// Host is the host the external port is bound on.
	Host string

	// Internal is the port the service listens on inside its container or network.
	Internal int

	// External is the port callers connect to.
	External int
}

// Addr returns host:external suitable for net.Dial.
func (p Port) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.External))
}

// InFormat substitutes $HOST, $EXTERNAL_PORT and $INTERNAL_PORT in format.
func (p Port) InFormat(format string) string {
	r := strings.NewReplacer(
		"$HOST", p.Host,
		"$EXTERNAL_PORT", strconv.Itoa(p.External),
		"$INTERNAL_PORT", strconv.Itoa(p.Internal),
	)
	return r.Replace(format)
}

// Target is a resolved handle to one running service instance.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Port returns an error matching ErrPortNotMapped for unknown ports.
type Target interface {
	// Name returns the service name the target was resolved from.
	Name() string

	// Port returns the address mapping for an internal port.
	Port(ctx context.Context, internal int) (Port, error)

	// Ports returns every mapped port, ordered by internal port.
	Ports(ctx context.Context) ([]Port, error)
}

// Provider resolves service names to targets.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: unknown names return an error matching ErrNotFound.
type Provider interface {
	Resolve(ctx context.Context, name string) (Target, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, name string) (Target, error)

// Resolve calls f.
func (f ProviderFunc) Resolve(ctx context.Context, name string) (Target, error) {
	return f(ctx, name)
}
