package procedures

import (
	"math"

	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// ChiSquare is Pearson's chi-square test of independence. With Yates set the
// statistic is continuity-corrected and Cramér's V is reported alongside.
type ChiSquare struct {
	dist  *stats.Distributions
	yates bool
}

// NewChiSquare creates the uncorrected Pearson chi-square test
func NewChiSquare() *ChiSquare {
	return &ChiSquare{dist: stats.NewDistributions()}
}

// NewYatesChiSquare creates the continuity-corrected chi-square test
func NewYatesChiSquare() *ChiSquare {
	return &ChiSquare{dist: stats.NewDistributions(), yates: true}
}

// Key returns the wire name
func (p *ChiSquare) Key() string {
	if p.yates {
		return abtest.KeyChi2Contingency
	}
	return abtest.KeyChiSquare
}

// TestName returns the display name
func (p *ChiSquare) TestName() string {
	if p.yates {
		return "Chi-Square Test (with Yates' correction)"
	}
	return "Pearson's Chi-Square Test"
}

// Description returns a human-readable description
func (p *ChiSquare) Description() string {
	if p.yates {
		return "Test for independence with continuity correction"
	}
	return "Test for independence without continuity correction; " +
		"values run below the continuity-corrected chi2_contingency on small tables"
}

// Evaluate computes the statistic with one degree of freedom
func (p *ChiSquare) Evaluate(table Table) (Result, error) {
	expected := table.Expected()
	if i, j, ok := zeroExpected(expected); ok {
		return Result{}, errors.Computationf(
			"the table of expected frequencies has a zero element at (%d, %d)", i, j)
	}

	observed := table.Observed()
	chiSq := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			o, e := observed[i][j], expected[i][j]
			if p.yates {
				o = yatesAdjust(o, e)
			}
			chiSq += (o - e) * (o - e) / e
		}
	}

	const df = 1
	res := Result{
		Statistic:        abtest.Float(chiSq),
		PValue:           abtest.Float(p.dist.ChiSquarePValue(chiSq, df)),
		DegreesOfFreedom: abtest.Int(df),
	}

	if p.yates {
		// Cramér's V = sqrt(χ² / (N * (min(rows, cols) - 1))); a 2x2 table gives min - 1 = 1
		n := float64(table.Total())
		res.Extras = map[string]float64{
			abtest.ExtraCramersV: math.Sqrt(chiSq / (n * (2 - 1))),
		}
	}
	return res, nil
}

// yatesAdjust moves an observed count toward its expectation by at most 0.5
func yatesAdjust(observed, expected float64) float64 {
	diff := expected - observed
	magnitude := math.Min(0.5, math.Abs(diff))
	if diff < 0 {
		return observed - magnitude
	}
	return observed + magnitude
}
