package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream creates a deterministic RNG stream for a specific stage/trial.
	// Streams derive from the stage name, trial key, and base seed alone, so
	// a fixed seed reproduces a whole batch across runs regardless of which
	// study triggered it or how many workers ran it.
	Stream(ctx context.Context, stageName, trialKey string, baseSeed int64) (*rand.Rand, error)
}
