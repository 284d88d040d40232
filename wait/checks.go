package wait

import (
	"context"
	"fmt"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// Service returns a cluster-level check that resolves the named service on
// every attempt and runs checker against it.
//
// A resolution failure becomes an error outcome naming the service, so a
// service that registers late is simply retried.
func Service(name string, checker health.Checker) health.Check[cluster.Provider] {
	return &serviceCheck{service: name, checker: checker}
}

// Services returns a check that requires checker to pass against every named
// service, in order.
func Services(names []string, checker health.Checker) health.Check[cluster.Provider] {
	checks := make([]health.Check[cluster.Provider], 0, len(names))
	for _, name := range names {
		checks = append(checks, Service(name, checker))
	}
	return health.All(checks...)
}

// ClusterCheckFunc creates a cluster-level check from a function.
func ClusterCheckFunc(name string, fn func(context.Context, cluster.Provider) health.Outcome) health.Check[cluster.Provider] {
	return health.NewCheckFunc(name, fn)
}

type serviceCheck struct {
	service string
	checker health.Checker
}

func (s *serviceCheck) Name() string {
	if s.checker == nil {
		return s.service
	}
	return s.service + "/" + s.checker.Name()
}

func (s *serviceCheck) Check(ctx context.Context, provider cluster.Provider) health.Outcome {
	if s.checker == nil {
		return health.Error(fmt.Errorf("%w: service %q has no checker", ErrInvalidConfig, s.service)).
			WithCheck(s.Name())
	}

	target, err := provider.Resolve(ctx, s.service)
	if err != nil {
		return health.Error(fmt.Errorf("resolve service %q: %w", s.service, err)).WithCheck(s.Name())
	}

	out := s.checker.Check(ctx, target)
	if out.Check == "" {
		out = out.WithCheck(s.Name())
	}
	return out
}
