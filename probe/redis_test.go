package probe

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/readygate/health"
)

func TestRedis_NotListening(t *testing.T) {
	tgt := target(t, map[int]int{6379: closedPort(t)})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := Redis(RedisConfig{}).Check(ctx, tgt)

	if out.Status != health.StatusFailure {
		t.Errorf("Check() = %v, want failure", out)
	}
}

func TestRedis_UnmappedPort(t *testing.T) {
	out := Redis(RedisConfig{Port: 6380}).Check(context.Background(), target(t, nil))

	if out.Status != health.StatusError {
		t.Errorf("Check() = %v, want error", out)
	}
}
