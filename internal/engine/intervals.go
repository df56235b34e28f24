package engine

import (
	"math"

	"abtest/domain/abtest"
)

// rateVariance returns r(1-r)/n, treating an empty group as zero variance
func rateVariance(g abtest.SampleGroup) float64 {
	if g.Size <= 0 {
		return 0
	}
	r := g.Rate()
	return r * (1 - r) / float64(g.Size)
}

// RateInterval is the Wald interval of one group's rate, clamped to [0, 1]
func RateInterval(g abtest.SampleGroup, critical float64) abtest.Interval {
	r := g.Rate()
	margin := critical * math.Sqrt(rateVariance(g))
	return abtest.Interval{Lower: r - margin, Upper: r + margin}.Clamp01()
}

// DifferenceInterval is the unpooled Wald interval of variation minus control.
// It is deliberately left unclamped so the sign of each bound is preserved.
func DifferenceInterval(control, variation abtest.SampleGroup, critical float64) abtest.Interval {
	absolute := variation.Rate() - control.Rate()
	se := math.Sqrt(rateVariance(control) + rateVariance(variation))
	return abtest.Interval{Lower: absolute - critical*se, Upper: absolute + critical*se}
}
