package procedures

import (
	"math"

	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// ZTest is the pooled two-proportion z-test, the primary significance test
type ZTest struct {
	dist *stats.Distributions
}

// NewZTest creates a new two-proportion z-test
func NewZTest() *ZTest {
	return &ZTest{dist: stats.NewDistributions()}
}

// Key returns the wire name
func (p *ZTest) Key() string {
	return abtest.KeyZTest
}

// TestName returns the display name
func (p *ZTest) TestName() string {
	return "Two-Proportion Z-Test"
}

// Description returns a human-readable description
func (p *ZTest) Description() string {
	return "Two-sided test of equal conversion rates using the pooled proportion"
}

// Evaluate computes z = (r_v - r_c) / SE with SE from the pooled proportion.
// A zero standard error yields z = 0.
func (p *ZTest) Evaluate(table Table) (Result, error) {
	rows := table.RowTotals()
	if rows[0] <= 0 || rows[1] <= 0 {
		return Result{}, errors.Computation("sample sizes must be positive")
	}
	n1, n2 := float64(rows[0]), float64(rows[1])

	pooled := float64(table.A+table.C) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))

	z := 0.0
	if se > 0 {
		controlRate := float64(table.A) / n1
		variationRate := float64(table.C) / n2
		z = (variationRate - controlRate) / se
	}

	return Result{
		Statistic: abtest.Float(z),
		PValue:    abtest.Float(p.dist.TwoSidedNormalPValue(z)),
		Extras: map[string]float64{
			abtest.ExtraPooledRate: pooled,
			abtest.ExtraStdError:   se,
		},
	}, nil
}
