package procedures

import "abtest/domain/abtest"

// Table is the 2x2 contingency table [[A, B], [C, D]]:
// rows are control and variation, columns are converted and not converted.
type Table struct {
	A, B int // control conversions, control failures
	C, D int // variation conversions, variation failures
}

// NewTable builds the contingency table for an experiment
func NewTable(in abtest.Input) Table {
	control, variation := in.Control(), in.Variation()
	return Table{
		A: control.Conversions,
		B: control.Failures(),
		C: variation.Conversions,
		D: variation.Failures(),
	}
}

// Observed returns the cells as floats
func (t Table) Observed() [2][2]float64 {
	return [2][2]float64{
		{float64(t.A), float64(t.B)},
		{float64(t.C), float64(t.D)},
	}
}

// RowTotals returns the group sizes
func (t Table) RowTotals() [2]int {
	return [2]int{t.A + t.B, t.C + t.D}
}

// ColTotals returns total conversions and total failures
func (t Table) ColTotals() [2]int {
	return [2]int{t.A + t.C, t.B + t.D}
}

// Total returns N
func (t Table) Total() int {
	return t.A + t.B + t.C + t.D
}

// Expected returns frequencies under independence: the outer product of the
// margins divided by N. All cells are zero for an empty table.
func (t Table) Expected() [2][2]float64 {
	var expected [2][2]float64
	n := float64(t.Total())
	if n == 0 {
		return expected
	}
	rows, cols := t.RowTotals(), t.ColTotals()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected[i][j] = float64(rows[i]) * float64(cols[j]) / n
		}
	}
	return expected
}

// zeroExpected returns the first cell whose expected frequency is zero
func zeroExpected(expected [2][2]float64) (int, int, bool) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if expected[i][j] == 0 {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
