package simulation

import (
	"math/rand"

	"pairpower/domain/cohort"
	"pairpower/domain/core"
	"pairpower/ports"
)

// CohortSpec describes the population one trial draws from.
type CohortSpec struct {
	// Size is the total number of subjects sampled, not the number of
	// true-positive pairs; prevalence decides how many of them carry
	// disease.
	Size         int
	Prevalence   float64
	SensitivityA float64
	SensitivityB float64
}

// Validate fails fast before any sampling happens.
func (s CohortSpec) Validate() error {
	if s.Size < 0 {
		return core.NewCountsError("negative cohort size")
	}
	if s.Prevalence < 0 || s.Prevalence > 1 {
		return core.NewProbabilityError("prevalence", s.Prevalence)
	}
	if s.SensitivityA < 0 || s.SensitivityA > 1 {
		return core.NewProbabilityError("sensitivity_a", s.SensitivityA)
	}
	if s.SensitivityB < 0 || s.SensitivityB > 1 {
		return core.NewProbabilityError("sensitivity_b", s.SensitivityB)
	}
	return nil
}

// Generator produces synthetic cohorts through the sampler port.
type Generator struct {
	sampler ports.SamplerPort
}

// NewGenerator creates a cohort generator.
func NewGenerator(sampler ports.SamplerPort) *Generator {
	return &Generator{sampler: sampler}
}

// Generate draws a fresh cohort. Disease status comes first; test outcomes
// are drawn only for diseased subjects, the non-diseased branch sets both
// results false without touching the RNG (perfect specificity).
func (g *Generator) Generate(rng *rand.Rand, spec CohortSpec) (cohort.Cohort, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	subjects := make(cohort.Cohort, spec.Size)
	for i := range subjects {
		diseased, err := g.sampler.Draw(rng, spec.Prevalence)
		if err != nil {
			return nil, err
		}
		if !diseased {
			continue // zero-value Subject: no disease, both tests negative
		}

		testA, err := g.sampler.Draw(rng, spec.SensitivityA)
		if err != nil {
			return nil, err
		}
		testB, err := g.sampler.Draw(rng, spec.SensitivityB)
		if err != nil {
			return nil, err
		}
		subjects[i] = cohort.Subject{
			TruePositive:  true,
			TestAPositive: testA,
			TestBPositive: testB,
		}
	}
	return subjects, nil
}
