package probe

import (
	"context"
	"fmt"
	"net"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// TCP returns a check that succeeds when a TCP connection to the target's
// internal port can be opened.
func TCP(port int) health.Checker {
	return health.NewCheckFunc(fmt.Sprintf("tcp(%d)", port), func(ctx context.Context, target cluster.Target) health.Outcome {
		p, err := target.Port(ctx, port)
		if err != nil {
			return health.Error(err)
		}
		return dial(ctx, p)
	})
}

// dial opens and immediately closes a connection to p.
func dial(ctx context.Context, p cluster.Port) health.Outcome {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.Addr())
	if err != nil {
		return health.Failuref("internal port %d (%s) is not listening: %v", p.Internal, p.Addr(), err)
	}
	_ = conn.Close()
	return health.Success()
}
