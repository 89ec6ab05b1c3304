package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrInvalidProbability     = errors.New("probability outside [0,1]")
	ErrInvalidCounts          = errors.New("invalid contingency counts")
	ErrInvalidAlternative     = errors.New("unknown test alternative")
	ErrInvalidConfidence      = errors.New("confidence level outside (0,1)")
	ErrNoDetectableDifference = errors.New("assumed sensitivities leave no detectable difference")

	// Degenerate data errors
	ErrNoPairs       = errors.New("no matched pairs: test undefined")
	ErrNoValidTrials = errors.New("no valid trials completed")
)

// Error constructors with context
func NewProbabilityError(name string, value float64) error {
	return fmt.Errorf("%w: %s=%g", ErrInvalidProbability, name, value)
}

func NewCountsError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCounts, reason)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProbability) ||
		errors.Is(err, ErrInvalidCounts) ||
		errors.Is(err, ErrInvalidAlternative) ||
		errors.Is(err, ErrInvalidConfidence) ||
		errors.Is(err, ErrNoDetectableDifference)
}

func IsDegenerateError(err error) bool {
	return errors.Is(err, ErrNoPairs) || errors.Is(err, ErrNoValidTrials)
}
