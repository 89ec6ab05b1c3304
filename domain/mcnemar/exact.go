// Package mcnemar implements the exact McNemar test for paired binary
// outcomes. The test conditions on the number of discordant pairs m: under
// the null hypothesis of equal sensitivities the discordant split follows
// Binomial(m, 1/2), so exact tail probabilities come straight from the
// binomial distribution.
package mcnemar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"pairpower/domain/cohort"
	"pairpower/domain/core"
)

// Alternative selects the direction of the alternative hypothesis.
type Alternative string

const (
	// Greater tests whether test A's sensitivity exceeds test B's.
	Greater Alternative = "greater"
	// Less tests the opposite direction.
	Less Alternative = "less"
	// TwoSided tests for any difference.
	TwoSided Alternative = "two.sided"
)

// Result holds the outcome of one exact test.
type Result struct {
	// Difference is the estimated sensitivity difference (b-c)/n.
	Difference float64
	// PValue is the exact conditional p-value for the chosen alternative.
	PValue float64
	// ConfLower and ConfUpper bound the difference at the configured
	// confidence level. For directional alternatives the interval is
	// one-sided: [lower, 1] for Greater, [-1, upper] for Less.
	ConfLower float64
	ConfUpper float64
	// Pairs and Discordant record the table the test was run on.
	Pairs      int
	Discordant int
}

// ExactTest runs the exact McNemar test on a matched-pairs table.
// A table with zero pairs is undefined and returns core.ErrNoPairs.
func ExactTest(counts cohort.Counts, alt Alternative, confLevel float64) (*Result, error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	if confLevel <= 0 || confLevel >= 1 {
		return nil, fmt.Errorf("%w: %g", core.ErrInvalidConfidence, confLevel)
	}

	n := counts.Pairs()
	if n == 0 {
		return nil, core.ErrNoPairs
	}

	m := counts.Discordant()
	p, err := ExactConditional(counts.OnlyA, m, alt)
	if err != nil {
		return nil, err
	}

	diff := float64(counts.OnlyA-counts.OnlyB) / float64(n)
	lower, upper := waldBounds(counts, diff, alt, confLevel)

	return &Result{
		Difference: diff,
		PValue:     p,
		ConfLower:  lower,
		ConfUpper:  upper,
		Pairs:      n,
		Discordant: m,
	}, nil
}

// ExactConditional computes the exact conditional p-value given x discordant
// pairs in the tested direction out of m discordant pairs total. This is the
// raw primitive the table-level test reduces to; x > m is a contract
// violation, not a zero.
func ExactConditional(x, m int, alt Alternative) (float64, error) {
	if m < 0 || x < 0 {
		return 0, core.NewCountsError("negative discordant count")
	}
	if x > m {
		return 0, core.NewCountsError(fmt.Sprintf("x=%d exceeds m=%d", x, m))
	}
	if m == 0 {
		// No discordant pairs carries no evidence against the null.
		return 1.0, nil
	}

	null := distuv.Binomial{N: float64(m), P: 0.5}

	switch alt {
	case Greater:
		return upperTail(null, x), nil
	case Less:
		return null.CDF(float64(x)), nil
	case TwoSided:
		p := 2 * math.Min(null.CDF(float64(x)), upperTail(null, x))
		return math.Min(p, 1.0), nil
	default:
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidAlternative, alt)
	}
}

// upperTail returns P(X >= x) for the conditional null distribution.
func upperTail(d distuv.Binomial, x int) float64 {
	if x == 0 {
		return 1.0
	}
	return 1.0 - d.CDF(float64(x-1))
}

// waldBounds computes Wald-style bounds for the paired difference. The
// standard error follows the matched-pairs variance (b+c-(b-c)^2/n)/n^2.
func waldBounds(counts cohort.Counts, diff float64, alt Alternative, confLevel float64) (float64, float64) {
	n := float64(counts.Pairs())
	bc := float64(counts.Discordant())
	variance := (bc - (diff*diff)*n) / (n * n)
	if variance < 0 {
		variance = 0
	}
	se := math.Sqrt(variance)

	switch alt {
	case Greater:
		z := distuv.UnitNormal.Quantile(confLevel)
		return clamp(diff - z*se), 1.0
	case Less:
		z := distuv.UnitNormal.Quantile(confLevel)
		return -1.0, clamp(diff + z*se)
	default:
		z := distuv.UnitNormal.Quantile(1 - (1-confLevel)/2)
		return clamp(diff - z*se), clamp(diff + z*se)
	}
}

func clamp(v float64) float64 {
	return math.Max(-1.0, math.Min(1.0, v))
}
