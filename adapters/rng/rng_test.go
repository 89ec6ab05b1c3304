package rng

import (
	"context"
	"testing"
)

func TestStream_DeterministicPerKey(t *testing.T) {
	a := NewStreamAdapter()
	ctx := context.Background()

	first, err := a.Stream(ctx, "monte_carlo", "trial_7", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := a.Stream(ctx, "monte_carlo", "trial_7", 42)

	for i := 0; i < 10; i++ {
		if first.Float64() != second.Float64() {
			t.Fatal("identical stream keys diverged")
		}
	}
}

func TestStream_IndependentPerTrial(t *testing.T) {
	a := NewStreamAdapter()
	ctx := context.Background()

	first, _ := a.Stream(ctx, "monte_carlo", "trial_1", 42)
	second, _ := a.Stream(ctx, "monte_carlo", "trial_2", 42)

	same := true
	for i := 0; i < 10; i++ {
		if first.Float64() != second.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct trial keys produced the same stream")
	}
}

func TestStream_SeedIsTheOnlyRunInput(t *testing.T) {
	// A rerun with the same seed must replay the same stream; nothing about
	// the invoking run (timestamps, generated IDs) may leak into the key.
	a := NewStreamAdapter()
	ctx := context.Background()

	first, _ := a.Stream(ctx, "monte_carlo", "trial_3", 42)
	second, _ := a.Stream(ctx, "monte_carlo", "trial_3", 42)
	if first.Int63() != second.Int63() {
		t.Error("same stage/trial/seed did not replay the stream")
	}

	base, _ := a.Stream(ctx, "monte_carlo", "trial_3", 42)
	shifted, _ := a.Stream(ctx, "monte_carlo", "trial_3", 43)
	if base.Int63() == shifted.Int63() {
		t.Error("different base seeds produced the same stream")
	}
}
