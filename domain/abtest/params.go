package abtest

import (
	"math"

	"abtest/internal/errors"
)

// Default analysis parameters
const (
	DefaultAlpha           = 0.05
	DefaultPower           = 0.80
	DefaultConfidenceLevel = 0.95
)

// Params are the fixed constants of an analysis, made explicit so alternate
// significance, power or interval levels are a parameter change.
type Params struct {
	Alpha           float64 `json:"alpha" yaml:"alpha"`                       // significance threshold for the primary test
	Power           float64 `json:"power" yaml:"power"`                       // target power for the sample size recommendation
	ConfidenceLevel float64 `json:"confidence_level" yaml:"confidence_level"` // level of all Wald intervals
}

// DefaultParams returns alpha=0.05, power=0.80, confidence=0.95
func DefaultParams() Params {
	return Params{
		Alpha:           DefaultAlpha,
		Power:           DefaultPower,
		ConfidenceLevel: DefaultConfidenceLevel,
	}
}

// Validate checks every parameter lies strictly inside (0, 1)
func (p Params) Validate() error {
	if !inOpenUnit(p.Alpha) {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	if !inOpenUnit(p.Power) {
		return errors.ConfigInvalid("power must be in (0, 1)")
	}
	if !inOpenUnit(p.ConfidenceLevel) {
		return errors.ConfigInvalid("confidence level must be in (0, 1)")
	}
	return nil
}

// ConfidencePercent returns the confidence level as a whole percentage, e.g. 95
func (p Params) ConfidencePercent() int {
	return int(math.Round(p.ConfidenceLevel * 100))
}

func inOpenUnit(v float64) bool {
	return v > 0 && v < 1 && !math.IsNaN(v)
}
