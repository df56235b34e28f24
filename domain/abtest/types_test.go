package abtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleGroup_Rate(t *testing.T) {
	assert.InDelta(t, 0.1, SampleGroup{Size: 1000, Conversions: 100}.Rate(), 1e-12)
	assert.Equal(t, 0.0, SampleGroup{Size: 0, Conversions: 0}.Rate())
	assert.Equal(t, 900, SampleGroup{Size: 1000, Conversions: 100}.Failures())
}

func TestInterval_Clamp01(t *testing.T) {
	iv := Interval{Lower: -0.05, Upper: 1.2}.Clamp01()
	assert.Equal(t, 0.0, iv.Lower)
	assert.Equal(t, 1.0, iv.Upper)

	inside := Interval{Lower: 0.2, Upper: 0.4}
	assert.Equal(t, inside, inside.Clamp01())
}

func TestInput_Swapped(t *testing.T) {
	in := Input{ControlSize: 10, ControlConversions: 1, VariationSize: 20, VariationConversions: 8}
	assert.Equal(t, in.Variation(), in.Swapped().Control())
	assert.Equal(t, in, in.Swapped().Swapped())
}

// TestTestsSummary_FailedProcedures verifies failed outcomes serialize as nulls with an error description
func TestTestsSummary_FailedProcedures(t *testing.T) {
	outcomes := map[string]TestOutcome{
		KeyZTest: {Key: KeyZTest, Statistic: Float(1.2), PValue: Float(0.23)},
		KeyChiSquare: {
			Key:         KeyChiSquare,
			Description: "Error: zero expected frequency",
			Err:         assert.AnError,
		},
		KeyFishersExact: {
			Key:      KeyFishersExact,
			TestName: "Fisher's Exact Test",
			PValue:   Float(1),
		},
	}

	summary := NewTestsSummary(outcomes)

	assert.Nil(t, summary.ChiSquare.PValue)
	assert.Nil(t, summary.ChiSquare.Statistic)
	assert.Equal(t, "Error: zero expected frequency", summary.ChiSquare.Description)
	assert.Empty(t, summary.ZTest.Description)
	assert.Nil(t, summary.FishersExact.OddsRatio)
	assert.Contains(t, summary.FailedProcedures(), KeyChiSquare)
	assert.NotContains(t, summary.FailedProcedures(), KeyZTest)
}
