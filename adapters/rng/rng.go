// Package rng implements the RNG port with derived deterministic streams.
package rng

import (
	"context"
	"math/rand"

	"pairpower/ports"
)

// StreamAdapter derives independent deterministic streams by folding stream
// names into the base seed. Identical names and seed always reproduce the
// same draw sequence.
type StreamAdapter struct{}

// NewStreamAdapter creates an RNG adapter.
func NewStreamAdapter() *StreamAdapter {
	return &StreamAdapter{}
}

var _ ports.RNGPort = (*StreamAdapter)(nil)

// Stream creates a deterministic RNG stream for a specific stage/trial.
// Study identity is deliberately not part of the key: a fixed base seed must
// reproduce a batch byte for byte across runs.
func (a *StreamAdapter) Stream(ctx context.Context, stageName, trialKey string, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if stageName != "" {
		seed += int64(hashString(stageName))
	}
	if trialKey != "" {
		seed += int64(hashString(trialKey))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
