package probe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// GRPCConfig configures a gRPC health probe.
type GRPCConfig struct {
	// Port is the service's internal port. Required.
	Port int

	// Service is the name passed to the health service. Empty asks about
	// the server as a whole.
	Service string

	// DialOptions replace the default insecure, instrumented dial options.
	DialOptions []grpc.DialOption
}

// GRPC returns a check that succeeds when the standard gRPC health service
// reports SERVING.
func GRPC(cfg GRPCConfig) health.Checker {
	if len(cfg.DialOptions) == 0 {
		cfg.DialOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		}
	}

	name := fmt.Sprintf("grpc(%d)", cfg.Port)
	if cfg.Service != "" {
		name = fmt.Sprintf("grpc(%d/%s)", cfg.Port, cfg.Service)
	}

	return health.NewCheckFunc(name, func(ctx context.Context, target cluster.Target) health.Outcome {
		p, err := target.Port(ctx, cfg.Port)
		if err != nil {
			return health.Error(err)
		}

		conn, err := grpc.NewClient(p.Addr(), cfg.DialOptions...)
		if err != nil {
			return health.Error(err)
		}
		defer conn.Close()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: cfg.Service})
		if err != nil {
			return health.Failuref("grpc health at %s: %v", p.Addr(), err)
		}
		if resp.Status != healthpb.HealthCheckResponse_SERVING {
			return health.Failuref("grpc health at %s: status %s", p.Addr(), resp.Status)
		}
		return health.Success()
	})
}
