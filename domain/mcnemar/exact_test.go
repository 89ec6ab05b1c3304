package mcnemar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairpower/domain/cohort"
	"pairpower/domain/core"
)

func TestExactConditional_KnownTails(t *testing.T) {
	// With m=6 discordant pairs the null split is Binomial(6, 1/2) over 64
	// equally likely outcomes.
	cases := []struct {
		name string
		x, m int
		alt  Alternative
		want float64
	}{
		{"greater x=5 m=6", 5, 6, Greater, 7.0 / 64},    // C(6,5)+C(6,6)
		{"greater x=0", 0, 6, Greater, 1.0},             // whole distribution
		{"greater x=m", 6, 6, Greater, 1.0 / 64},        // single outcome
		{"less x=5 m=6", 5, 6, Less, 63.0 / 64},         // all but C(6,6)
		{"two sided x=5 m=6", 5, 6, TwoSided, 14.0 / 64}, // doubled smaller tail
		{"two sided balanced", 3, 6, TwoSided, 1.0},     // capped at 1
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExactConditional(tc.x, tc.m, tc.alt)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestExactConditional_NoDiscordantPairs(t *testing.T) {
	p, err := ExactConditional(0, 0, Greater)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestExactConditional_InvalidInputs(t *testing.T) {
	_, err := ExactConditional(7, 6, Greater)
	require.Error(t, err, "x > m must be rejected")
	assert.True(t, errors.Is(err, core.ErrInvalidCounts))

	_, err = ExactConditional(-1, 6, Greater)
	assert.Error(t, err)

	_, err = ExactConditional(3, 6, Alternative("sideways"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidAlternative))
}

func TestExactTest_DifferenceAndBounds(t *testing.T) {
	counts := cohort.Counts{BothPositive: 10, OnlyA: 5, OnlyB: 1, BothNegative: 4}

	result, err := ExactTest(counts, Greater, 0.95)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Pairs)
	assert.Equal(t, 6, result.Discordant)
	assert.InDelta(t, 0.2, result.Difference, 1e-12) // (5-1)/20
	assert.InDelta(t, 7.0/64, result.PValue, 1e-12)

	// One-sided interval for the "greater" alternative.
	assert.Equal(t, 1.0, result.ConfUpper)
	assert.Less(t, result.ConfLower, result.Difference)
	assert.GreaterOrEqual(t, result.ConfLower, -1.0)
}

func TestExactTest_ZeroPairsIsError(t *testing.T) {
	_, err := ExactTest(cohort.Counts{}, Greater, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoPairs))
}

func TestExactTest_AllConcordant(t *testing.T) {
	// Pairs exist but none are discordant: no evidence either way.
	counts := cohort.Counts{BothPositive: 8, BothNegative: 2}

	result, err := ExactTest(counts, Greater, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.PValue)
	assert.Equal(t, 0.0, result.Difference)
}

func TestExactTest_InvalidConfidence(t *testing.T) {
	counts := cohort.Counts{BothPositive: 1, OnlyA: 1}
	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, err := ExactTest(counts, Greater, level)
		assert.Error(t, err, "confidence level %g", level)
	}
}

func TestExactTest_NegativeCounts(t *testing.T) {
	_, err := ExactTest(cohort.Counts{OnlyA: -2, OnlyB: 3}, Greater, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidCounts))
}
