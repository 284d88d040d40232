package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Service describes a service with fixed, known addresses.
type Service struct {
	// Name identifies the service. Required.
	Name string

	// Host the ports are bound on. Default: "localhost"
	Host string

	// Ports maps internal ports to external ports.
	Ports map[int]int
}

// Static is a Provider over a fixed set of services.
type Static struct {
	targets map[string]*staticTarget
	names   []string
}

// NewStatic creates a static provider. Service names must be unique.
func NewStatic(services ...Service) (*Static, error) {
	s := &Static{targets: make(map[string]*staticTarget, len(services))}

	for _, svc := range services {
		name := strings.TrimSpace(svc.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidService)
		}
		if _, exists := s.targets[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateService, name)
		}

		host := svc.Host
		if host == "" {
			host = "localhost"
		}

		ports := make([]Port, 0, len(svc.Ports))
		for internal, external := range svc.Ports {
			if internal <= 0 || external <= 0 {
				return nil, fmt.Errorf("%w: %q has invalid port mapping %d:%d", ErrInvalidService, name, internal, external)
			}
			ports = append(ports, Port{Host: host, Internal: internal, External: external})
		}
		sort.Slice(ports, func(i, j int) bool { return ports[i].Internal < ports[j].Internal })

		s.targets[name] = &staticTarget{name: name, ports: ports}
		s.names = append(s.names, name)
	}

	return s, nil
}

// Resolve returns the named target.
func (s *Static) Resolve(_ context.Context, name string) (Target, error) {
	t, ok := s.targets[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return t, nil
}

// Names returns the service names in registration order.
func (s *Static) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

type staticTarget struct {
	name  string
	ports []Port
}

func (t *staticTarget) Name() string {
	return t.name
}

func (t *staticTarget) Port(_ context.Context, internal int) (Port, error) {
	for _, p := range t.ports {
		if p.Internal == internal {
			return p, nil
		}
	}
	return Port{}, fmt.Errorf("%w: %s:%d", ErrPortNotMapped, t.name, internal)
}

func (t *staticTarget) Ports(_ context.Context) ([]Port, error) {
	out := make([]Port, len(t.ports))
	copy(out, t.ports)
	return out, nil
}
