package health

import (
	"context"
	"testing"

	"github.com/jonwraymond/readygate/cluster"
)

func TestCheckFunc(t *testing.T) {
	var seen cluster.Target
	check := NewCheckFunc("test-check", func(ctx context.Context, target cluster.Target) Outcome {
		seen = target
		return Success()
	})

	if check.Name() != "test-check" {
		t.Errorf("Name() = %v, want 'test-check'", check.Name())
	}

	provider, _ := cluster.NewStatic(cluster.Service{Name: "db"})
	target, _ := provider.Resolve(context.Background(), "db")

	out := check.Check(context.Background(), target)
	if !out.IsSuccess() {
		t.Errorf("Check() = %v, want success", out)
	}
	if seen != target {
		t.Error("Check() did not receive the target")
	}
}

func TestCheckFunc_WithContext(t *testing.T) {
	check := NewCheckFunc("ctx-check", func(ctx context.Context, _ string) Outcome {
		select {
		case <-ctx.Done():
			return Error(ctx.Err())
		default:
			return Success()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := check.Check(ctx, "ignored")
	if out.Status != StatusError {
		t.Errorf("Check() Status = %v, want StatusError", out.Status)
	}
}

var _ Checker = (*CheckFunc[cluster.Target])(nil)
