// Package cohort defines the synthetic study population: subjects with a
// gold-standard disease status and two paired binary test outcomes, and the
// reduction of a cohort to a matched-pairs contingency table.
package cohort

import "pairpower/domain/core"

// Subject is one simulated participant. Under the study model tests have
// perfect specificity: a subject without disease never tests positive.
type Subject struct {
	TruePositive  bool
	TestAPositive bool
	TestBPositive bool
}

// Valid reports whether the subject satisfies the perfect-specificity
// invariant.
func (s Subject) Valid() bool {
	if !s.TruePositive {
		return !s.TestAPositive && !s.TestBPositive
	}
	return true
}

// Cohort is one trial's population. Created fresh per trial, consumed by
// Tabulate, then discarded.
type Cohort []Subject

// TruePositives counts subjects with disease per the gold standard.
func (c Cohort) TruePositives() int {
	n := 0
	for _, s := range c {
		if s.TruePositive {
			n++
		}
	}
	return n
}

// Counts is the 2x2 matched-pairs table over true-positive subjects.
// In the usual (a,b,c,d) notation: a=BothPositive, b=OnlyA, c=OnlyB,
// d=BothNegative. OnlyA/OnlyB are the discordant cells.
type Counts struct {
	BothPositive int
	OnlyA        int
	OnlyB        int
	BothNegative int
}

// Pairs returns the total number of matched pairs a+b+c+d.
func (c Counts) Pairs() int {
	return c.BothPositive + c.OnlyA + c.OnlyB + c.BothNegative
}

// Discordant returns b+c, the pairs where the two tests disagree.
func (c Counts) Discordant() int {
	return c.OnlyA + c.OnlyB
}

// Validate checks that every cell is non-negative.
func (c Counts) Validate() error {
	if c.BothPositive < 0 || c.OnlyA < 0 || c.OnlyB < 0 || c.BothNegative < 0 {
		return core.NewCountsError("negative cell")
	}
	return nil
}

// Tabulate reduces a cohort to matched-pairs counts, restricted to subjects
// with TruePositive set. Guarantee: Pairs() equals the cohort's true-positive
// count.
func Tabulate(c Cohort) Counts {
	var counts Counts
	for _, s := range c {
		if !s.TruePositive {
			continue
		}
		switch {
		case s.TestAPositive && s.TestBPositive:
			counts.BothPositive++
		case s.TestAPositive:
			counts.OnlyA++
		case s.TestBPositive:
			counts.OnlyB++
		default:
			counts.BothNegative++
		}
	}
	return counts
}
