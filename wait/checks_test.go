package wait

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/readygate/cluster"
	"github.com/jonwraymond/readygate/health"
)

func TestService_PassesResolvedTarget(t *testing.T) {
	provider, _ := cluster.NewStatic(cluster.Service{Name: "db", Ports: map[int]int{5432: 55432}})

	var seen []string
	checker := health.NewCheckFunc("port", func(ctx context.Context, target cluster.Target) health.Outcome {
		seen = append(seen, target.Name())
		if _, err := target.Port(ctx, 5432); err != nil {
			return health.Error(err)
		}
		return health.Success()
	})

	out := Service("db", checker).Check(context.Background(), provider)

	if !out.IsSuccess() {
		t.Errorf("Check() = %v, want success", out)
	}
	if len(seen) != 1 || seen[0] != "db" {
		t.Errorf("checker saw %v, want [db]", seen)
	}
}

func TestService_ResolvesEveryAttempt(t *testing.T) {
	var resolves int
	provider := cluster.ProviderFunc(func(ctx context.Context, name string) (cluster.Target, error) {
		resolves++
		if resolves < 3 {
			return nil, &cluster.NotFoundError{Name: name}
		}
		static, _ := cluster.NewStatic(cluster.Service{Name: name})
		return static.Resolve(ctx, name)
	})
	checker := health.NewCheckFunc("ok", func(context.Context, cluster.Target) health.Outcome {
		return health.Success()
	})
	w, _ := New(Config{Check: Service("late", checker), Timeout: time.Second, Interval: time.Millisecond})

	if err := w.WaitUntilReady(context.Background(), provider); err != nil {
		t.Fatalf("WaitUntilReady() error = %v", err)
	}
	if resolves != 3 {
		t.Errorf("resolves = %d, want 3", resolves)
	}
}

func TestService_UnknownServiceIsError(t *testing.T) {
	provider, _ := cluster.NewStatic()
	checker := health.NewCheckFunc("ok", func(context.Context, cluster.Target) health.Outcome {
		return health.Success()
	})

	out := Service("missing", checker).Check(context.Background(), provider)

	if out.Status != health.StatusError {
		t.Fatalf("Status = %v, want StatusError", out.Status)
	}
	if !errors.Is(out.Err, cluster.ErrNotFound) {
		t.Errorf("Err = %v, want cluster.ErrNotFound", out.Err)
	}
	if !strings.Contains(out.Reason, `"missing"`) {
		t.Errorf("Reason = %q, want service name", out.Reason)
	}
	if out.Check != "missing/ok" {
		t.Errorf("Check = %q, want 'missing/ok'", out.Check)
	}
}

func TestServices_AllMustPass(t *testing.T) {
	provider, _ := cluster.NewStatic(
		cluster.Service{Name: "a"},
		cluster.Service{Name: "b"},
	)
	checker := health.NewCheckFunc("named-a", func(_ context.Context, target cluster.Target) health.Outcome {
		return health.FromBool(target.Name() == "a", target.Name()+" is not a")
	})

	out := Services([]string{"a", "b"}, checker).Check(context.Background(), provider)

	if out.Status != health.StatusFailure || out.Reason != "b is not a" {
		t.Errorf("Check() = %v, want failure from b", out)
	}
	if out.Check != "b/named-a" {
		t.Errorf("Check = %q, want 'b/named-a'", out.Check)
	}
}
