package probe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// DefaultPostgresDSN is used when PostgresConfig.DSN is empty.
const DefaultPostgresDSN = "postgres://postgres:postgres@$HOST:$EXTERNAL_PORT/postgres?sslmode=disable"

// PostgresConfig configures a PostgreSQL probe.
type PostgresConfig struct {
	// Port is the service's internal port.
	// Default: 5432
	Port int

	// DSN is a connection string in which $HOST, $EXTERNAL_PORT and
	// $INTERNAL_PORT are replaced with the resolved port.
	// Default: DefaultPostgresDSN
	DSN string
}

// Postgres returns a check that succeeds when a connection can be opened and
// pinged.
func Postgres(cfg PostgresConfig) health.Checker {
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.DSN == "" {
		cfg.DSN = DefaultPostgresDSN
	}

	return health.NewCheckFunc(fmt.Sprintf("postgres(%d)", cfg.Port), func(ctx context.Context, target cluster.Target) health.Outcome {
		p, err := target.Port(ctx, cfg.Port)
		if err != nil {
			return health.Error(err)
		}

		connCfg, err := pgx.ParseConfig(p.InFormat(cfg.DSN))
		if err != nil {
			return health.Error(fmt.Errorf("%w: postgres dsn: %v", ErrInvalidConfig, err))
		}

		conn, err := pgx.ConnectConfig(ctx, connCfg)
		if err != nil {
			return health.Failuref("postgres at %s: %v", p.Addr(), err)
		}
		defer conn.Close(context.WithoutCancel(ctx))

		if err := conn.Ping(ctx); err != nil {
			return health.Failuref("postgres at %s: ping: %v", p.Addr(), err)
		}
		return health.Success()
	})
}
