package procedures

import (
	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// FisherExact is Fisher's exact test of independence on a 2x2 table
type FisherExact struct {
	dist *stats.Distributions
}

// NewFisherExact creates a new Fisher's exact test
func NewFisherExact() *FisherExact {
	return &FisherExact{dist: stats.NewDistributions()}
}

// Key returns the wire name
func (p *FisherExact) Key() string {
	return abtest.KeyFishersExact
}

// TestName returns the display name
func (p *FisherExact) TestName() string {
	return "Fisher's Exact Test"
}

// Description returns a human-readable description
func (p *FisherExact) Description() string {
	return "Exact test for independence in 2x2 tables"
}

// Evaluate computes the two-sided exact p-value: the total probability, under
// fixed margins, of every table no more likely than the observed one.
func (p *FisherExact) Evaluate(table Table) (Result, error) {
	n := table.Total()
	if n == 0 {
		return Result{}, errors.Computation("contingency table is empty")
	}

	rows, cols := table.RowTotals(), table.ColTotals()
	// X counts control rows among the converted column
	pValue := p.dist.HypergeometricTwoSidedPValue(table.A, n, rows[0], cols[0])

	res := Result{
		PValue: abtest.Float(pValue),
	}

	// Sample odds ratio (a*d)/(b*c); left null when b*c is zero
	ad := float64(table.A) * float64(table.D)
	bc := float64(table.B) * float64(table.C)
	if bc > 0 {
		res.Extras = map[string]float64{abtest.ExtraOddsRatio: ad / bc}
	} else {
		res.Note = p.Description() + "; odds ratio undefined because an off-diagonal cell is zero"
	}
	return res, nil
}
