package engine

import (
	"math"

	"abtest/domain/abtest"
)

// Cohen's h interpretation thresholds
const (
	smallEffectBound  = 0.2
	mediumEffectBound = 0.5
)

// CohensH computes h = 2 asin(sqrt(r_v)) - 2 asin(sqrt(r_c))
func CohensH(controlRate, variationRate float64) abtest.EffectSize {
	h := 2*math.Asin(math.Sqrt(clampRate(variationRate))) - 2*math.Asin(math.Sqrt(clampRate(controlRate)))
	return abtest.EffectSize{Value: h, Category: InterpretEffect(h)}
}

// InterpretEffect maps |h| to small (< 0.2), medium (< 0.5) or large
func InterpretEffect(h float64) abtest.EffectCategory {
	abs := math.Abs(h)
	switch {
	case abs < smallEffectBound:
		return abtest.EffectSmall
	case abs < mediumEffectBound:
		return abtest.EffectMedium
	default:
		return abtest.EffectLarge
	}
}

// clampRate keeps asin(sqrt(x)) in its domain against rounding
func clampRate(r float64) float64 {
	return math.Max(0, math.Min(1, r))
}
