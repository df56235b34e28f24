package procedures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abtest/domain/abtest"
	"abtest/internal/errors"
)

var (
	moderateLift = abtest.Input{ControlSize: 1000, ControlConversions: 100, VariationSize: 1000, VariationConversions: 120}
	noConversion = abtest.Input{ControlSize: 500, ControlConversions: 0, VariationSize: 500, VariationConversions: 0}
	smallSample  = abtest.Input{ControlSize: 10, ControlConversions: 1, VariationSize: 10, VariationConversions: 8}
)

// TestSuite_RunAll_ModerateLift checks every procedure against reference values
func TestSuite_RunAll_ModerateLift(t *testing.T) {
	outcomes := NewSuite().RunAll(moderateLift)
	require.Len(t, outcomes, 6)

	z := outcomes[abtest.KeyZTest]
	require.False(t, z.Failed())
	assert.InDelta(t, 1.4293, *z.Statistic, 1e-4)
	assert.InDelta(t, 0.1529, *z.PValue, 1e-4)
	assert.InDelta(t, 0.013993, *z.Extra(abtest.ExtraStdError), 1e-6)
	assert.InDelta(t, 0.11, *z.Extra(abtest.ExtraPooledRate), 1e-12)

	chi := outcomes[abtest.KeyChiSquare]
	assert.InDelta(t, 2.0429, *chi.Statistic, 1e-4)
	assert.InDelta(t, *z.PValue, *chi.PValue, 1e-9, "uncorrected chi-square equals the z-test")
	assert.Equal(t, 1, *chi.DegreesOfFreedom)

	yates := outcomes[abtest.KeyChi2Contingency]
	assert.InDelta(t, 1.8437, *yates.Statistic, 1e-4)
	assert.InDelta(t, 0.1745, *yates.PValue, 1e-4)
	assert.InDelta(t, 0.030362, *yates.Extra(abtest.ExtraCramersV), 1e-6)

	fisher := outcomes[abtest.KeyFishersExact]
	assert.InDelta(t, 0.1744, *fisher.PValue, 1e-4)
	assert.InDelta(t, 0.814815, *fisher.Extra(abtest.ExtraOddsRatio), 1e-6)

	barnard := outcomes[abtest.KeyBarnardsExact]
	assert.InDelta(t, *z.PValue, *barnard.PValue, 1e-12)
	assert.Contains(t, barnard.TestName, "approximation")

	g := outcomes[abtest.KeyGTest]
	assert.InDelta(t, 2.0454, *g.Statistic, 1e-4)
	assert.InDelta(t, 0.1527, *g.PValue, 1e-4)
}

// TestSuite_RunAll_NoConversions verifies zero expected frequencies fail only the chi-square procedures
func TestSuite_RunAll_NoConversions(t *testing.T) {
	outcomes := NewSuite().RunAll(noConversion)

	for _, key := range []string{abtest.KeyChiSquare, abtest.KeyChi2Contingency} {
		o := outcomes[key]
		require.True(t, o.Failed(), key)
		assert.Nil(t, o.Statistic)
		assert.Nil(t, o.PValue)
		assert.Nil(t, o.DegreesOfFreedom)
		assert.Contains(t, o.Description, "Error:")
		assert.Contains(t, o.Description, "zero element")
		assert.Equal(t, errors.CodeComputationError, errors.GetCode(o.Err))
	}

	z := outcomes[abtest.KeyZTest]
	require.False(t, z.Failed())
	assert.Equal(t, 0.0, *z.Statistic)
	assert.Equal(t, 1.0, *z.PValue)

	g := outcomes[abtest.KeyGTest]
	assert.Equal(t, 0.0, *g.Statistic)
	assert.Equal(t, 1.0, *g.PValue)

	fisher := outcomes[abtest.KeyFishersExact]
	assert.InDelta(t, 1.0, *fisher.PValue, 1e-12)
	assert.Nil(t, fisher.Extra(abtest.ExtraOddsRatio))
	assert.Contains(t, fisher.Description, "odds ratio undefined")

	assert.Equal(t, 1.0, *outcomes[abtest.KeyBarnardsExact].PValue)
}

// TestFisherExact_SmallSample checks the exact p-value 920/167960 against the
// continuity-corrected chi-square on a small table
func TestFisherExact_SmallSample(t *testing.T) {
	outcomes := NewSuite().RunAll(smallSample)

	fisher := outcomes[abtest.KeyFishersExact]
	require.False(t, fisher.Failed())
	assert.InDelta(t, 920.0/167960.0, *fisher.PValue, 1e-9)
	assert.InDelta(t, 1.0/36.0, *fisher.Extra(abtest.ExtraOddsRatio), 1e-12)

	yates := outcomes[abtest.KeyChi2Contingency]
	assert.InDelta(t, 0.0070, *yates.PValue, 1e-4)
	assert.Less(t, *fisher.PValue, *yates.PValue)

	chi := outcomes[abtest.KeyChiSquare]
	assert.InDelta(t, 0.001654, *chi.PValue, 1e-6)
	assert.Less(t, *chi.PValue, *yates.PValue, "continuity correction is conservative")
	assert.Contains(t, chi.Description, "without continuity correction")
	assert.Contains(t, chi.Description, abtest.KeyChi2Contingency)
}

// TestFisherExact_LargeCounts keeps the exact test fast at API-sized counts
func TestFisherExact_LargeCounts(t *testing.T) {
	const n = 100_000_000
	start := time.Now()

	balanced := Evaluate(NewFisherExact(), NewTable(abtest.Input{
		ControlSize: n, ControlConversions: n / 2, VariationSize: n, VariationConversions: n / 2,
	}))
	require.False(t, balanced.Failed())
	assert.InDelta(t, 1.0, *balanced.PValue, 1e-9)

	lifted := Evaluate(NewFisherExact(), NewTable(abtest.Input{
		ControlSize: n, ControlConversions: n / 10, VariationSize: n, VariationConversions: n/10 + 20000,
	}))
	require.False(t, lifted.Failed())
	assert.InEpsilon(t, 2.456390e-6, *lifted.PValue, 1e-4)

	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFisherExact_EmptyTable(t *testing.T) {
	_, err := NewFisherExact().Evaluate(Table{})
	assert.Error(t, err)
}

func TestYatesAdjust(t *testing.T) {
	assert.Equal(t, 1.5, yatesAdjust(1, 4.5))
	assert.Equal(t, 7.5, yatesAdjust(8, 4.5))
	// never crosses the expectation
	assert.InDelta(t, 4.5, yatesAdjust(4.7, 4.5), 1e-12)
}

func TestTable_Expected(t *testing.T) {
	table := NewTable(smallSample)
	assert.Equal(t, Table{A: 1, B: 9, C: 8, D: 2}, table)
	assert.Equal(t, [2]int{10, 10}, table.RowTotals())
	assert.Equal(t, [2]int{9, 11}, table.ColTotals())

	expected := table.Expected()
	assert.InDelta(t, 4.5, expected[0][0], 1e-12)
	assert.InDelta(t, 5.5, expected[1][1], 1e-12)

	assert.Equal(t, [2][2]float64{}, Table{}.Expected())
}

type panickingProcedure struct{ key string }

func (p panickingProcedure) Key() string         { return p.key }
func (p panickingProcedure) TestName() string    { return "Panicking Test" }
func (p panickingProcedure) Description() string { return "always panics" }
func (p panickingProcedure) Evaluate(Table) (Result, error) {
	panic("boom")
}

type nanProcedure struct{}

func (nanProcedure) Key() string         { return "nan" }
func (nanProcedure) TestName() string    { return "NaN Test" }
func (nanProcedure) Description() string { return "returns a NaN p-value" }
func (nanProcedure) Evaluate(Table) (Result, error) {
	zero := 0.0
	return Result{PValue: abtest.Float(zero / zero)}, nil
}

// TestSuite_IsolatesFailures verifies a panicking or non-finite procedure does not affect the others
func TestSuite_IsolatesFailures(t *testing.T) {
	suite := NewSuiteWith(panickingProcedure{key: "panics"}, nanProcedure{}, NewZTest())
	assert.Equal(t, []string{"panics", "nan", abtest.KeyZTest}, suite.Keys())

	outcomes := suite.RunAll(moderateLift)

	panicked := outcomes["panics"]
	require.True(t, panicked.Failed())
	assert.Equal(t, "Error: boom", panicked.Description)
	assert.Nil(t, panicked.PValue)

	nan := outcomes["nan"]
	require.True(t, nan.Failed())
	assert.Nil(t, nan.PValue)

	z := outcomes[abtest.KeyZTest]
	require.False(t, z.Failed())
	assert.InDelta(t, 0.1529, *z.PValue, 1e-4)
}

func TestSuite_Run(t *testing.T) {
	suite := NewSuite()

	o, ok := suite.Run(abtest.KeyGTest, smallSample)
	require.True(t, ok)
	assert.InDelta(t, 11.0158, *o.Statistic, 1e-4)

	_, ok = suite.Run("unknown", smallSample)
	assert.False(t, ok)
}

func TestBarnardApprox_DegenerateRates(t *testing.T) {
	all := abtest.Input{ControlSize: 50, ControlConversions: 50, VariationSize: 40, VariationConversions: 40}
	o := Evaluate(NewBarnardApprox(), NewTable(all))
	require.False(t, o.Failed())
	assert.Equal(t, 1.0, *o.PValue)
	assert.Equal(t, 1.0, *o.Extra(abtest.ExtraPooledRate))
}
