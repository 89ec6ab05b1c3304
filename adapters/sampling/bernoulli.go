// Package sampling implements the Bernoulli sampler port on math/rand.
package sampling

import (
	"math/rand"

	"pairpower/domain/core"
	"pairpower/ports"
)

// BernoulliSampler draws binary outcomes from a caller-supplied source so
// determinism stays under the caller's control.
type BernoulliSampler struct{}

// NewBernoulliSampler creates a sampler adapter.
func NewBernoulliSampler() *BernoulliSampler {
	return &BernoulliSampler{}
}

var _ ports.SamplerPort = (*BernoulliSampler)(nil)

// Bernoulli draws n independent outcomes with success probability p.
func (s *BernoulliSampler) Bernoulli(rng *rand.Rand, n int, p float64) ([]bool, error) {
	if p < 0 || p > 1 {
		return nil, core.NewProbabilityError("p", p)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = rng.Float64() < p
	}
	return out, nil
}

// Draw draws a single outcome with success probability p.
func (s *BernoulliSampler) Draw(rng *rand.Rand, p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, core.NewProbabilityError("p", p)
	}
	return rng.Float64() < p, nil
}
