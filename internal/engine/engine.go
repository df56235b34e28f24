package engine

import (
	"abtest/adapters/stats/procedures"
	"abtest/domain/abtest"
	"abtest/internal/errors"
	"abtest/internal/stats"
)

// Engine turns the four counts of an experiment into a Report.
// It holds only immutable parameters and is safe for concurrent use.
type Engine struct {
	params   abtest.Params
	critical float64
	suite    *procedures.Suite
	sizer    *SampleSizer
}

// New creates an engine for the given parameters
func New(params abtest.Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid analysis parameters")
	}

	dist := stats.NewDistributions()
	return &Engine{
		params:   params,
		critical: dist.CriticalValue(params.ConfidenceLevel),
		suite:    procedures.NewSuite(),
		sizer:    NewSampleSizer(dist, params.Alpha, params.Power),
	}, nil
}

// Default returns an engine with alpha=0.05, power=0.80 and 95% intervals
func Default() *Engine {
	e, err := New(abtest.DefaultParams())
	if err != nil {
		panic(err)
	}
	return e
}

// Analyze computes the full report. The input is assumed to satisfy
// Input.Validate; degenerate counts still yield a report, never a panic.
func Analyze(in abtest.Input) abtest.Report {
	return Default().Analyze(in)
}

// Params returns the engine's parameters
func (e *Engine) Params() abtest.Params {
	return e.params
}

// Sizer returns the sample size calculator configured with the engine's alpha and power
func (e *Engine) Sizer() *SampleSizer {
	return e.sizer
}

// Analyze computes the full report for one experiment
func (e *Engine) Analyze(in abtest.Input) abtest.Report {
	control, variation := in.Control(), in.Variation()
	controlRate, variationRate := control.Rate(), variation.Rate()

	diff := CompareRates(control, variation)
	controlCI := RateInterval(control, e.critical)
	variationCI := RateInterval(variation, e.critical)
	diffCI := DifferenceInterval(control, variation, e.critical)

	outcomes := e.suite.RunAll(in)
	effect := CohensH(controlRate, variationRate)

	significant := e.isSignificant(outcomes[abtest.KeyZTest])

	return abtest.Report{
		Control:   groupSummary(control, controlCI),
		Variation: groupSummary(variation, variationCI),
		Difference: abtest.DifferenceSummary{
			Absolute: diff.Absolute,
			Relative: diff.Relative,
			CILower:  diffCI.Lower,
			CIUpper:  diffCI.Upper,
		},
		StatisticalTests: abtest.NewTestsSummary(outcomes),
		EffectSize: abtest.EffectSizeSummary{
			CohensH:        effect.Value,
			Interpretation: effect.Category,
		},
		Results: abtest.ResultsSummary{
			IsSignificant:         significant,
			ConfidenceLevel:       e.params.ConfidencePercent(),
			RecommendedSampleSize: e.sizer.Recommend(significant, controlRate, variationRate),
		},
	}
}

// Outcomes runs only the hypothesis test suite
func (e *Engine) Outcomes(in abtest.Input) map[string]abtest.TestOutcome {
	return e.suite.RunAll(in)
}

// isSignificant applies alpha to the primary z-test; a failed z-test is never significant
func (e *Engine) isSignificant(z abtest.TestOutcome) bool {
	if z.Failed() || z.PValue == nil {
		return false
	}
	return *z.PValue < e.params.Alpha
}

func groupSummary(g abtest.SampleGroup, ci abtest.Interval) abtest.GroupSummary {
	return abtest.GroupSummary{
		SampleSize:     g.Size,
		Conversions:    g.Conversions,
		ConversionRate: g.Rate(),
		CILower:        ci.Lower,
		CIUpper:        ci.Upper,
	}
}
