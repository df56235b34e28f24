package engine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abtest/domain/abtest"
	"abtest/internal/errors"
)

// TestAnalyze_ModerateLift covers the typical non-significant experiment
func TestAnalyze_ModerateLift(t *testing.T) {
	r := Analyze(abtest.Input{ControlSize: 1000, ControlConversions: 100, VariationSize: 1000, VariationConversions: 120})

	assert.InDelta(t, 0.10, r.Control.ConversionRate, 1e-12)
	assert.InDelta(t, 0.12, r.Variation.ConversionRate, 1e-12)
	assert.InDelta(t, 0.0814061, r.Control.CILower, 1e-6)
	assert.InDelta(t, 0.1185939, r.Control.CIUpper, 1e-6)

	assert.InDelta(t, 0.02, r.Difference.Absolute, 1e-12)
	assert.InDelta(t, 20.0, r.Difference.Relative, 1e-9)
	assert.InDelta(t, -0.0074115, r.Difference.CILower, 1e-6)
	assert.InDelta(t, 0.0474115, r.Difference.CIUpper, 1e-6)

	require.NotNil(t, r.StatisticalTests.ZTest.ZScore)
	assert.InDelta(t, 1.429, *r.StatisticalTests.ZTest.ZScore, 1e-3)
	assert.InDelta(t, 0.153, *r.StatisticalTests.ZTest.PValue, 1e-3)

	swapped := Analyze(abtest.Input{ControlSize: 1000, ControlConversions: 120, VariationSize: 1000, VariationConversions: 100})
	require.NotNil(t, swapped.StatisticalTests.ZTest.ZScore)
	assert.InDelta(t, -1.429, *swapped.StatisticalTests.ZTest.ZScore, 1e-3)

	assert.InDelta(t, 0.06398, r.EffectSize.CohensH, 1e-5)
	assert.Equal(t, abtest.EffectSmall, r.EffectSize.Interpretation)

	assert.False(t, r.Results.IsSignificant)
	assert.Equal(t, 95, r.Results.ConfidenceLevel)
	assert.Equal(t, 3839, r.Results.RecommendedSampleSize)
}

// TestAnalyze_NoConversions verifies the degenerate all-zero experiment still yields a report
func TestAnalyze_NoConversions(t *testing.T) {
	r := Analyze(abtest.Input{ControlSize: 500, ControlConversions: 0, VariationSize: 500, VariationConversions: 0})

	assert.Equal(t, 0.0, r.Control.ConversionRate)
	assert.Equal(t, 0.0, r.Control.CILower)
	assert.Equal(t, 0.0, r.Control.CIUpper)
	assert.Equal(t, 0.0, r.Difference.Relative)

	tests := r.StatisticalTests
	assert.Nil(t, tests.ChiSquare.PValue)
	assert.Contains(t, tests.ChiSquare.Description, "Error:")
	assert.Nil(t, tests.Chi2Contingency.PValue)
	assert.Nil(t, tests.Chi2Contingency.CramersV)
	assert.Equal(t, 1.0, *tests.GTest.PValue)
	assert.InDelta(t, 1.0, *tests.FishersExact.PValue, 1e-12)
	assert.Nil(t, tests.FishersExact.OddsRatio)
	assert.Equal(t, 1.0, *tests.BarnardsExact.PValue)

	assert.Equal(t, 0.0, r.EffectSize.CohensH)
	assert.False(t, r.Results.IsSignificant)
	assert.Equal(t, 0, r.Results.RecommendedSampleSize)

	// The whole report must stay encodable
	_, err := json.Marshal(r)
	assert.NoError(t, err)
}

// TestAnalyze_SmallSampleLargeEffect covers a significant result with clamped intervals
func TestAnalyze_SmallSampleLargeEffect(t *testing.T) {
	r := Analyze(abtest.Input{ControlSize: 10, ControlConversions: 1, VariationSize: 10, VariationConversions: 8})

	assert.InDelta(t, 700.0, r.Difference.Relative, 1e-9)
	assert.Equal(t, 0.0, r.Control.CILower)
	assert.Equal(t, 1.0, r.Variation.CIUpper)
	assert.Greater(t, r.Difference.CIUpper, 1.0, "difference interval is not clamped")

	assert.InDelta(t, 920.0/167960.0, *r.StatisticalTests.FishersExact.PValue, 1e-9)
	assert.InDelta(t, math.Pi/2, r.EffectSize.CohensH, 1e-9)
	assert.Equal(t, abtest.EffectLarge, r.EffectSize.Interpretation)

	assert.True(t, r.Results.IsSignificant)
	assert.Equal(t, 0, r.Results.RecommendedSampleSize)
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	_, err := New(abtest.Params{Alpha: 0, Power: 0.8, ConfidenceLevel: 0.95})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

// TestNew_CustomParams verifies alpha drives significance and confidence drives the reported level
func TestNew_CustomParams(t *testing.T) {
	e, err := New(abtest.Params{Alpha: 0.2, Power: 0.9, ConfidenceLevel: 0.9})
	require.NoError(t, err)

	r := e.Analyze(abtest.Input{ControlSize: 1000, ControlConversions: 100, VariationSize: 1000, VariationConversions: 120})
	assert.True(t, r.Results.IsSignificant)
	assert.Equal(t, 90, r.Results.ConfidenceLevel)
	assert.Equal(t, 0, r.Results.RecommendedSampleSize)
}

func TestInterpretEffect(t *testing.T) {
	assert.Equal(t, abtest.EffectSmall, InterpretEffect(0.19))
	assert.Equal(t, abtest.EffectMedium, InterpretEffect(0.2))
	assert.Equal(t, abtest.EffectMedium, InterpretEffect(-0.49))
	assert.Equal(t, abtest.EffectLarge, InterpretEffect(0.5))
}

func TestSampleSizer_PerGroup(t *testing.T) {
	sizer := Default().Sizer()
	assert.Equal(t, 3839, sizer.PerGroup(0.10, 0.12))
	assert.Equal(t, 683, sizer.PerGroup(0.10, 0.15))
	assert.Equal(t, 0, sizer.PerGroup(0.3, 0.3))
	assert.Equal(t, 0, sizer.Recommend(true, 0.10, 0.12))
}

func TestSampleSizer_Plan(t *testing.T) {
	sizer := Default().Sizer()

	plan, err := sizer.Plan(0.10, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 683, plan.PerGroup)
	assert.Equal(t, 1366, plan.Total)

	for _, tc := range []struct{ baseline, mde float64 }{
		{0, 0.05},
		{1.2, 0.05},
		{0.10, 0},
		{0.95, 0.10},
	} {
		_, err := sizer.Plan(tc.baseline, tc.mde)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}
