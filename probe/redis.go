package probe

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

// RedisConfig configures a Redis probe.
type RedisConfig struct {
	// Port is the service's internal port.
	// Default: 6379
	Port int

	Password string
	DB       int
}

// Redis returns a check that succeeds when the server answers PING.
func Redis(cfg RedisConfig) health.Checker {
	if cfg.Port == 0 {
		cfg.Port = 6379
	}

	return health.NewCheckFunc(fmt.Sprintf("redis(%d)", cfg.Port), func(ctx context.Context, target cluster.Target) health.Outcome {
		p, err := target.Port(ctx, cfg.Port)
		if err != nil {
			return health.Error(err)
		}

		client := redis.NewClient(&redis.Options{
			Addr:       p.Addr(),
			Password:   cfg.Password,
			DB:         cfg.DB,
			MaxRetries: -1,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return health.Failuref("redis at %s: %v", p.Addr(), err)
		}
		return health.Success()
	})
}
