package engine

import (
	"math"

	"abtest/internal/errors"
	"abtest/internal/stats"
)

// SampleSizer computes the per-group sample size needed to detect a
// difference between two rates at a given significance and power
type SampleSizer struct {
	zAlpha float64
	zBeta  float64
}

// NewSampleSizer creates a sizer for a two-sided alpha and target power
func NewSampleSizer(dist *stats.Distributions, alpha, power float64) *SampleSizer {
	return &SampleSizer{
		zAlpha: dist.NormalQuantile(1 - alpha/2),
		zBeta:  dist.NormalQuantile(power),
	}
}

// PerGroup returns ⌈(z_α+z_β)² (p1(1-p1) + p2(1-p2)) / (p1-p2)²⌉, or 0 when
// the rates are equal
func (s *SampleSizer) PerGroup(p1, p2 float64) int {
	if p1 == p2 {
		return 0
	}
	z := s.zAlpha + s.zBeta
	n := z * z * (p1*(1-p1) + p2*(1-p2)) / ((p1 - p2) * (p1 - p2))
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(n))
}

// Recommend applies the recommender's rule: nothing is recommended once the
// primary test is significant
func (s *SampleSizer) Recommend(significant bool, controlRate, variationRate float64) int {
	if significant {
		return 0
	}
	return s.PerGroup(controlRate, variationRate)
}

// Plan is a sample size recommendation for a planned experiment
type Plan struct {
	BaselineRate            float64 `json:"baseline_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
	PerGroup                int     `json:"per_group"`
	Total                   int     `json:"total"`
}

// Plan sizes an experiment that must detect an absolute lift of mde over baseline
func (s *SampleSizer) Plan(baseline, mde float64) (Plan, error) {
	if !(baseline > 0 && baseline < 1) {
		return Plan{}, errors.InvalidInput("baseline rate must be between 0 and 1")
	}
	if mde == 0 || math.IsNaN(mde) {
		return Plan{}, errors.InvalidInput("minimum detectable effect must be non-zero")
	}
	target := baseline + mde
	if target < 0 || target > 1 {
		return Plan{}, errors.InvalidInput("baseline rate plus effect must stay between 0 and 1")
	}

	perGroup := s.PerGroup(baseline, target)
	return Plan{
		BaselineRate:            baseline,
		MinimumDetectableEffect: mde,
		PerGroup:                perGroup,
		Total:                   2 * perGroup,
	}, nil
}
