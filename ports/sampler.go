package ports

import "math/rand"

// SamplerPort draws independent binary outcomes. Implementations must fail
// fast on probabilities outside [0,1] before drawing anything.
type SamplerPort interface {
	// Bernoulli draws n independent outcomes with success probability p.
	Bernoulli(rng *rand.Rand, n int, p float64) ([]bool, error)

	// Draw draws a single outcome with success probability p.
	Draw(rng *rand.Rand, p float64) (bool, error)
}
