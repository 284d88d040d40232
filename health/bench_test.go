package health

import (
	"context"
	"testing"
)

func BenchmarkAll(b *testing.B) {
	ok := NewCheckFunc("ok", func(ctx context.Context, _ int) Outcome { return Success() })
	check := All[int](ok, ok, ok, ok)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = check.Check(ctx, i)
	}
}

func BenchmarkAny_AllFail(b *testing.B) {
	bad := NewCheckFunc("bad", func(ctx context.Context, _ int) Outcome { return Failure("no") })
	check := Any[int](bad, bad, bad, bad)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = check.Check(ctx, i)
	}
}
