package procedures

import (
	"math"

	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// BarnardApprox stands in for Barnard's unconditional exact test.
//
// It is NOT an exact test: the p-value is the pooled two-proportion z-test
// p-value. The name and description say so, and callers must not read it as
// an exact result.
type BarnardApprox struct {
	dist *stats.Distributions
}

// NewBarnardApprox creates the Barnard's-test approximation
func NewBarnardApprox() *BarnardApprox {
	return &BarnardApprox{dist: stats.NewDistributions()}
}

// Key returns the wire name
func (p *BarnardApprox) Key() string {
	return abtest.KeyBarnardsExact
}

// TestName returns the display name
func (p *BarnardApprox) TestName() string {
	return "Barnard's Exact Test (approximation)"
}

// Description returns a human-readable description
func (p *BarnardApprox) Description() string {
	return "Approximated by a pooled two-proportion z-test, not an unconditional exact computation"
}

// Evaluate returns p = 1 whenever the pooled rate is 0 or 1 or the standard
// error vanishes
func (p *BarnardApprox) Evaluate(table Table) (Result, error) {
	rows := table.RowTotals()
	total := table.Total()

	pooled := 0.0
	if total > 0 {
		pooled = float64(table.A+table.C) / float64(total)
	}

	pValue := 1.0
	if rows[0] > 0 && pooled > 0 && pooled < 1 {
		if rows[1] == 0 {
			return Result{}, errors.Computation("variation sample size is zero")
		}
		n1, n2 := float64(rows[0]), float64(rows[1])
		se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
		if se > 0 {
			z := math.Abs(float64(table.A)/n1-float64(table.C)/n2) / se
			pValue = p.dist.TwoSidedNormalPValue(z)
		}
	}

	return Result{
		PValue: abtest.Float(pValue),
		Extras: map[string]float64{abtest.ExtraPooledRate: pooled},
	}, nil
}
