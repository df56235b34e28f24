package procedures

import (
	"math"

	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// GTest is the likelihood-ratio test of independence
type GTest struct {
	dist *stats.Distributions
}

// NewGTest creates a new G-test
func NewGTest() *GTest {
	return &GTest{dist: stats.NewDistributions()}
}

// Key returns the wire name
func (p *GTest) Key() string {
	return abtest.KeyGTest
}

// TestName returns the display name
func (p *GTest) TestName() string {
	return "G-test (Likelihood Ratio Test)"
}

// Description returns a human-readable description
func (p *GTest) Description() string {
	return "Test for independence using likelihood ratios"
}

// Evaluate computes G = 2 * Σ O ln(O/E); cells with O = 0 contribute nothing
func (p *GTest) Evaluate(table Table) (Result, error) {
	if table.Total() == 0 {
		return Result{}, errors.Computation("contingency table is empty")
	}

	observed := table.Observed()
	expected := table.Expected()

	g := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			o, e := observed[i][j], expected[i][j]
			if o > 0 && e > 0 {
				g += o * math.Log(o/e)
			}
		}
	}
	// Rounding can leave a tiny negative sum for independent tables
	g = math.Max(0, 2*g)

	const df = 1
	return Result{
		Statistic:        abtest.Float(g),
		PValue:           abtest.Float(p.dist.ChiSquarePValue(g, df)),
		DegreesOfFreedom: abtest.Int(df),
	}, nil
}
