package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides the reference distributions used by the analysis engine.
// It is stateless; the zero value is ready to use.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// NormalCDF computes the standard normal cumulative distribution function
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the inverse of the standard normal CDF
func (d *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// TwoSidedNormalPValue returns 2 * (1 - Φ(|z|)), clamped to [0, 1]
func (d *Distributions) TwoSidedNormalPValue(z float64) float64 {
	return ClampProbability(2 * distuv.UnitNormal.Survival(math.Abs(z)))
}

// CriticalValue returns the two-sided standard normal critical value for a
// confidence level, e.g. 1.95996 for 0.95
func (d *Distributions) CriticalValue(confidenceLevel float64) float64 {
	alpha := 1 - confidenceLevel
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func (d *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	if chiSquare <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return ClampProbability(chiDist.Survival(chiSquare))
}

// hypergeometricRelErr treats tables within this relative factor of the
// observed probability as ties, so they are not lost to rounding
const hypergeometricRelErr = 1 + 1e-7

// hypergeometricNegligible ends the walk in one direction; terms below this,
// relative to the mode, cannot change a double-precision sum
const hypergeometricNegligible = 1e-300

// HypergeometricTwoSidedPValue returns the total probability of every outcome
// no more likely than k, for X ~ Hypergeometric drawing `draws` items from a
// population of `population` holding `successes` successes.
//
// Probabilities are kept relative to the mode and stepped with the ratio
// pmf(x+1)/pmf(x), so the cost is bounded by the spread of the distribution
// (about 80 standard deviations) rather than by the counts.
func (d *Distributions) HypergeometricTwoSidedPValue(k, population, successes, draws int) float64 {
	lo := max(0, draws-(population-successes))
	hi := min(successes, draws)
	if k < lo || k > hi {
		return 0
	}
	if lo == hi {
		return 1
	}

	h := hypergeometric{
		successes: float64(successes),
		failures:  float64(population - successes),
		draws:     float64(draws),
	}
	mode := h.mode(lo, hi)

	// Relative probability of the observed outcome; zero when it lies beyond
	// the negligible range
	observed := 0.0
	r := 1.0
	if k >= mode {
		for x := mode; x <= k && r >= hypergeometricNegligible; x++ {
			if x == k {
				observed = r
			}
			r *= h.up(x)
		}
	} else {
		for x := mode; x >= k && r >= hypergeometricNegligible; x-- {
			if x == k {
				observed = r
			}
			r *= h.down(x)
		}
	}
	threshold := observed * hypergeometricRelErr

	total, tail := 0.0, 0.0
	add := func(r float64) {
		total += r
		if r <= threshold {
			tail += r
		}
	}

	r = 1.0
	for x := mode; x <= hi && r >= hypergeometricNegligible; x++ {
		add(r)
		r *= h.up(x)
	}
	r = 1.0
	for x := mode; x > lo; x-- {
		r *= h.down(x)
		if r < hypergeometricNegligible {
			break
		}
		add(r)
	}

	return ClampProbability(tail / total)
}

// hypergeometric holds the parameters of one distribution as floats so the
// step ratios never overflow integer arithmetic
type hypergeometric struct {
	successes, failures, draws float64
}

// mode returns floor((draws+1)(successes+1)/(population+2)) clipped to the support
func (h hypergeometric) mode(lo, hi int) int {
	population := h.successes + h.failures
	m := int(math.Floor((h.draws + 1) * (h.successes + 1) / (population + 2)))
	return max(lo, min(hi, m))
}

// up returns pmf(x+1)/pmf(x)
func (h hypergeometric) up(x int) float64 {
	fx := float64(x)
	return (h.successes - fx) * (h.draws - fx) / ((fx + 1) * (h.failures - h.draws + fx + 1))
}

// down returns pmf(x-1)/pmf(x)
func (h hypergeometric) down(x int) float64 {
	fx := float64(x)
	return fx * (h.failures - h.draws + fx) / ((h.successes - fx + 1) * (h.draws - fx + 1))
}

// ClampProbability clips p into [0, 1]
func ClampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
