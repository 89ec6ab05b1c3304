package simulation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairpower/adapters/sampling"
	"pairpower/domain/core"
)

var testSpec = CohortSpec{
	Size:         500,
	Prevalence:   0.7,
	SensitivityA: 0.82,
	SensitivityB: 0.73,
}

func newTestGenerator() *Generator {
	return NewGenerator(sampling.NewBernoulliSampler())
}

func TestGenerate_CohortSizeAndSpecificity(t *testing.T) {
	g := newTestGenerator()

	c, err := g.Generate(rand.New(rand.NewSource(1)), testSpec)
	require.NoError(t, err)
	require.Len(t, c, testSpec.Size)

	for i, s := range c {
		assert.True(t, s.Valid(), "subject %d violates perfect specificity: %+v", i, s)
	}

	// At 70% prevalence a 500-subject cohort without true positives (or
	// without healthy subjects) would be astronomically unlikely.
	tp := c.TruePositives()
	assert.Greater(t, tp, 0)
	assert.Less(t, tp, testSpec.Size)
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	g := newTestGenerator()

	first, err := g.Generate(rand.New(rand.NewSource(99)), testSpec)
	require.NoError(t, err)
	second, err := g.Generate(rand.New(rand.NewSource(99)), testSpec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_EmptyCohort(t *testing.T) {
	g := newTestGenerator()
	spec := testSpec
	spec.Size = 0

	c, err := g.Generate(rand.New(rand.NewSource(1)), spec)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestGenerate_ExtremePrevalence(t *testing.T) {
	g := newTestGenerator()

	spec := testSpec
	spec.Prevalence = 0
	c, err := g.Generate(rand.New(rand.NewSource(1)), spec)
	require.NoError(t, err)
	assert.Equal(t, 0, c.TruePositives())

	spec.Prevalence = 1
	c, err = g.Generate(rand.New(rand.NewSource(1)), spec)
	require.NoError(t, err)
	assert.Equal(t, spec.Size, c.TruePositives())
}

func TestGenerate_InvalidSpec(t *testing.T) {
	g := newTestGenerator()
	rng := rand.New(rand.NewSource(1))

	bad := testSpec
	bad.Prevalence = 1.3
	_, err := g.Generate(rng, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidProbability))

	bad = testSpec
	bad.SensitivityA = -0.2
	_, err = g.Generate(rng, bad)
	assert.Error(t, err)

	bad = testSpec
	bad.Size = -1
	_, err = g.Generate(rng, bad)
	assert.Error(t, err)
}
