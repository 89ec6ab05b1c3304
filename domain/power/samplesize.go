// Package power estimates the number of matched true-positive pairs required
// for a one-tailed McNemar comparison of two diagnostic-test sensitivities.
//
// The discordant-pair model assumes the two tests err independently given
// disease status: p10 = pA(1-pB), p01 = pB(1-pA). The power approximation is
// the conditional (Miettinen/Connor) normal form; a conservative
// unconditional-variance closed form bounds the candidate range from above.
package power

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"pairpower/domain/core"
)

// Params are the assumed study inputs.
type Params struct {
	// SensitivityA is the assumed sensitivity of the candidate test; the
	// one-tailed design detects SensitivityA > SensitivityB.
	SensitivityA float64
	SensitivityB float64
	// Alpha is the one-tailed significance level.
	Alpha float64
	// Power is the target probability of rejecting the false null.
	Power float64
}

// Estimate is the ordered candidate set returned by the pairs search.
type Estimate struct {
	// Minimum is the smallest pair count whose approximate power meets the
	// target; it is the size the Monte Carlo validator simulates.
	Minimum  int
	Midpoint int
	// Maximum is the conservative unconditional-variance closed form.
	Maximum int
	// AchievedPower is the approximate power at Minimum.
	AchievedPower float64
}

// discordantModel derives psi (total discordant probability) and delta
// (directional discordant difference) from the assumed sensitivities.
func discordantModel(p Params) (psi, delta float64) {
	p10 := p.SensitivityA * (1 - p.SensitivityB)
	p01 := p.SensitivityB * (1 - p.SensitivityA)
	return p10 + p01, p10 - p01
}

// Validate fails fast on any parameter outside its contract.
func (p Params) Validate() error {
	if p.SensitivityA < 0 || p.SensitivityA > 1 {
		return core.NewProbabilityError("sensitivity_a", p.SensitivityA)
	}
	if p.SensitivityB < 0 || p.SensitivityB > 1 {
		return core.NewProbabilityError("sensitivity_b", p.SensitivityB)
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return core.NewProbabilityError("alpha", p.Alpha)
	}
	if p.Power <= 0 || p.Power >= 1 {
		return core.NewProbabilityError("power", p.Power)
	}
	if p.SensitivityA <= p.SensitivityB {
		return fmt.Errorf("%w: sensitivity_a=%g <= sensitivity_b=%g",
			core.ErrNoDetectableDifference, p.SensitivityA, p.SensitivityB)
	}
	return nil
}

// ApproximatePower returns the approximate one-tailed power of the McNemar
// test with the given number of matched pairs. Monotone non-decreasing in
// pairs for fixed Params.
func ApproximatePower(pairs int, p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if pairs <= 0 {
		return 0, nil
	}

	psi, delta := discordantModel(p)
	zAlpha := distuv.UnitNormal.Quantile(1 - p.Alpha)

	sd := math.Sqrt(psi - delta*delta)
	z := (delta*math.Sqrt(float64(pairs)) - zAlpha*math.Sqrt(psi)) / sd
	return distuv.UnitNormal.CDF(z), nil
}

// PairsRequired searches the power curve for the candidate pair counts.
func PairsRequired(p Params) (*Estimate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	psi, delta := discordantModel(p)
	zAlpha := distuv.UnitNormal.Quantile(1 - p.Alpha)
	zBeta := distuv.UnitNormal.Quantile(p.Power)

	// Conditional closed form as the search anchor.
	anchor := math.Pow(zAlpha*math.Sqrt(psi)+zBeta*math.Sqrt(psi-delta*delta), 2) / (delta * delta)
	minimum := searchMinimum(int(math.Ceil(anchor)), p)

	// Unconditional variance is never smaller, so it caps the range.
	maximum := int(math.Ceil(math.Pow(zAlpha+zBeta, 2) * psi / (delta * delta)))
	if maximum < minimum {
		maximum = minimum
	}

	achieved, err := ApproximatePower(minimum, p)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		Minimum:       minimum,
		Midpoint:      (minimum + maximum) / 2,
		Maximum:       maximum,
		AchievedPower: achieved,
	}, nil
}

// searchMinimum walks the integer power curve around the closed-form anchor
// to the smallest pair count meeting the target. Params are pre-validated so
// ApproximatePower cannot fail here.
func searchMinimum(anchor int, p Params) int {
	if anchor < 1 {
		anchor = 1
	}
	n := anchor
	for {
		pw, _ := ApproximatePower(n, p)
		if pw >= p.Power {
			break
		}
		n++
	}
	for n > 1 {
		pw, _ := ApproximatePower(n-1, p)
		if pw < p.Power {
			break
		}
		n--
	}
	return n
}
