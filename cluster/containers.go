package cluster

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/sync/singleflight"
)

// Container is the subset of testcontainers.Container the provider needs.
type Container interface {
	Host(ctx context.Context) (string, error)
	MappedPort(ctx context.Context, port nat.Port) (nat.Port, error)
}

var _ Container = (testcontainers.Container)(nil)

// ContainerService binds a service name to a running container.
type ContainerService struct {
	// Name identifies the service. Required.
	Name string

	// Container is the running container. Required.
	Container Container

	// ExposedPorts lists the internal TCP ports the container exposes.
	ExposedPorts []int
}

// Containers is a Provider backed by container runtime lookups.
//
// Host lookups for the same service are deduplicated across concurrent
// resolutions; port mappings are read on every call because a restarted
// container may be bound to new ports.
type Containers struct {
	services map[string]ContainerService
	group    singleflight.Group
}

// NewContainers creates a container-backed provider.
func NewContainers(services ...ContainerService) (*Containers, error) {
	c := &Containers{services: make(map[string]ContainerService, len(services))}

	for _, svc := range services {
		name := strings.TrimSpace(svc.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidService)
		}
		if svc.Container == nil {
			return nil, fmt.Errorf("%w: %q has no container", ErrInvalidService, name)
		}
		if _, exists := c.services[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateService, name)
		}

		exposed := append([]int(nil), svc.ExposedPorts...)
		sort.Ints(exposed)
		svc.Name = name
		svc.ExposedPorts = exposed
		c.services[name] = svc
	}

	return c, nil
}

// Resolve looks up the container's host and returns a target for it.
func (c *Containers) Resolve(ctx context.Context, name string) (Target, error) {
	svc, ok := c.services[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	// The shared lookup outlives any one caller; each caller stops waiting
	// when its own context ends.
	ch := c.group.DoChan(name, func() (any, error) {
		return svc.Container.Host(context.WithoutCancel(ctx))
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("cluster: resolve host for %q: %w", name, context.Cause(ctx))
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("cluster: resolve host for %q: %w", name, res.Err)
	}

	return &containerTarget{
		name:    name,
		host:    res.Val.(string),
		c:       svc.Container,
		exposed: svc.ExposedPorts,
	}, nil
}

type containerTarget struct {
	name    string
	host    string
	c       Container
	exposed []int
}

func (t *containerTarget) Name() string {
	return t.name
}

func (t *containerTarget) Port(ctx context.Context, internal int) (Port, error) {
	if !t.exposes(internal) {
		return Port{}, fmt.Errorf("%w: %s:%d", ErrPortNotMapped, t.name, internal)
	}

	mapped, err := t.c.MappedPort(ctx, nat.Port(strconv.Itoa(internal)+"/tcp"))
	if err != nil {
		return Port{}, fmt.Errorf("cluster: map port %s:%d: %w", t.name, internal, err)
	}

	return Port{Host: t.host, Internal: internal, External: mapped.Int()}, nil
}

func (t *containerTarget) Ports(ctx context.Context) ([]Port, error) {
	ports := make([]Port, 0, len(t.exposed))
	for _, internal := range t.exposed {
		p, err := t.Port(ctx, internal)
		if err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func (t *containerTarget) exposes(internal int) bool {
	for _, p := range t.exposed {
		if p == internal {
			return true
		}
	}
	return false
}
