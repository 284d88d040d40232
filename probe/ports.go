package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/gate"
	"github.com/jonwraymond/readygate/health"
	"github.com/jonwraymond/readygate/wait"
)

// AllPortsOpen returns a check that succeeds when every mapped port of the
// target accepts TCP connections. Ports are tried in ascending order and the
// first closed one is reported.
func AllPortsOpen() health.Checker {
	return health.NewCheckFunc("ports", func(ctx context.Context, target cluster.Target) health.Outcome {
		ports, err := target.Ports(ctx)
		if err != nil {
			return health.Error(err)
		}
		if len(ports) == 0 {
			return health.Error(fmt.Errorf("%w: %s", ErrNoPorts, target.Name()))
		}
		for _, p := range ports {
			if out := dial(ctx, p); !out.IsSuccess() {
				return out
			}
		}
		return health.Success()
	})
}

// WaitForAllPorts returns a gate extension that adds a wait for every port
// of service to open. A zero timeout uses wait.DefaultTimeout.
func WaitForAllPorts(service string, timeout time.Duration) gate.Extension {
	return func(b *gate.Builder) {
		b.AddWaitConfig(wait.Config{
			Description: fmt.Sprintf("all ports of %s are open", service),
			Check:       wait.Service(service, AllPortsOpen()),
			Timeout:     timeout,
		})
	}
}
