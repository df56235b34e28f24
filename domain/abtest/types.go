package abtest

import (
	"fmt"
	"math"
)

// ============================================================================
// INPUT PRIMITIVES
// ============================================================================

// Input holds the four raw counts of a two-arm experiment
type Input struct {
	ControlSize          int `json:"control_size" validate:"gt=0"`
	ControlConversions   int `json:"control_conversions" validate:"gte=0,ltefield=ControlSize"`
	VariationSize        int `json:"variation_size" validate:"gt=0"`
	VariationConversions int `json:"variation_conversions" validate:"gte=0,ltefield=VariationSize"`
}

// Control returns the control arm as a SampleGroup
func (in Input) Control() SampleGroup {
	return SampleGroup{Size: in.ControlSize, Conversions: in.ControlConversions}
}

// Variation returns the variation arm as a SampleGroup
func (in Input) Variation() SampleGroup {
	return SampleGroup{Size: in.VariationSize, Conversions: in.VariationConversions}
}

// Swapped exchanges control and variation
func (in Input) Swapped() Input {
	return Input{
		ControlSize:          in.VariationSize,
		ControlConversions:   in.VariationConversions,
		VariationSize:        in.ControlSize,
		VariationConversions: in.ControlConversions,
	}
}

// SampleGroup is one arm of the experiment
// INVARIANTS:
// - 0 <= Conversions <= Size
// - Rate() in [0, 1]
type SampleGroup struct {
	Size        int
	Conversions int
}

// Rate returns conversions / size, or 0 for an empty group
func (g SampleGroup) Rate() float64 {
	if g.Size <= 0 {
		return 0
	}
	return float64(g.Conversions) / float64(g.Size)
}

// Failures returns the non-converting count
func (g SampleGroup) Failures() int {
	return g.Size - g.Conversions
}

// Interval is a (lower, upper) confidence bound pair
type Interval struct {
	Lower float64
	Upper float64
}

// Clamp01 clips both bounds into [0, 1]
func (iv Interval) Clamp01() Interval {
	return Interval{
		Lower: math.Max(0, math.Min(1, iv.Lower)),
		Upper: math.Max(0, math.Min(1, iv.Upper)),
	}
}

// ============================================================================
// TEST OUTCOMES
// ============================================================================

// Procedure keys, used as wire names under statistical_tests
const (
	KeyZTest           = "z_test"
	KeyChiSquare       = "chi_square"
	KeyChi2Contingency = "chi2_contingency"
	KeyFishersExact    = "fishers_exact"
	KeyBarnardsExact   = "barnards_exact"
	KeyGTest           = "g_test"
)

// Extra metric names carried in TestOutcome.Extras
const (
	ExtraOddsRatio  = "odds_ratio"
	ExtraCramersV   = "cramers_v"
	ExtraPooledRate = "pooled_rate"
	ExtraStdError   = "std_error"
)

// TestOutcome is the result of one hypothesis-test procedure.
// A nil field is reported as null; Err is set when the procedure could not be evaluated.
type TestOutcome struct {
	Key              string
	TestName         string
	Description      string
	Statistic        *float64
	PValue           *float64
	DegreesOfFreedom *int
	Extras           map[string]float64
	Err              error
}

// Failed reports whether the procedure could not produce a result
func (o TestOutcome) Failed() bool {
	return o.Err != nil
}

// Extra returns a pointer to the named extra metric, or nil when absent
func (o TestOutcome) Extra(name string) *float64 {
	v, ok := o.Extras[name]
	if !ok {
		return nil
	}
	return &v
}

// Float returns a pointer to v; helper for building outcomes
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

// ============================================================================
// EFFECT SIZE
// ============================================================================

// EffectCategory is the interpretation band of Cohen's h
type EffectCategory string

const (
	EffectSmall  EffectCategory = "small"
	EffectMedium EffectCategory = "medium"
	EffectLarge  EffectCategory = "large"
)

// EffectSize is Cohen's h with its interpretation
type EffectSize struct {
	Value    float64
	Category EffectCategory
}

func (e EffectSize) String() string {
	return fmt.Sprintf("h=%.4f (%s)", e.Value, e.Category)
}
