package abtest

// ============================================================================
// REPORT (wire contract, field names are serialized verbatim)
// ============================================================================

// Report is the complete analysis of one experiment
type Report struct {
	Control          GroupSummary      `json:"control"`
	Variation        GroupSummary      `json:"variation"`
	Difference       DifferenceSummary `json:"difference"`
	StatisticalTests TestsSummary      `json:"statistical_tests"`
	EffectSize       EffectSizeSummary `json:"effect_size"`
	Results          ResultsSummary    `json:"results"`
}

// GroupSummary describes one arm with its clamped Wald interval
type GroupSummary struct {
	SampleSize     int     `json:"sample_size"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
	CILower        float64 `json:"ci_lower"`
	CIUpper        float64 `json:"ci_upper"`
}

// DifferenceSummary describes variation minus control; the interval is not clamped
type DifferenceSummary struct {
	Absolute float64 `json:"absolute"`
	Relative float64 `json:"relative"` // percent of the control rate
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
}

// TestsSummary holds the six procedures
type TestsSummary struct {
	ZTest           ZTestResult           `json:"z_test"`
	ChiSquare       ChiSquareResult       `json:"chi_square"`
	Chi2Contingency Chi2ContingencyResult `json:"chi2_contingency"`
	FishersExact    FishersExactResult    `json:"fishers_exact"`
	BarnardsExact   BarnardsExactResult   `json:"barnards_exact"`
	GTest           GTestResult           `json:"g_test"`
}

type ZTestResult struct {
	ZScore      *float64 `json:"z_score"`
	PValue      *float64 `json:"p_value"`
	Description string   `json:"description,omitempty"`
}

type ChiSquareResult struct {
	Statistic        *float64 `json:"statistic"`
	PValue           *float64 `json:"p_value"`
	DegreesOfFreedom *int     `json:"degrees_of_freedom"`
	Description      string   `json:"description,omitempty"`
}

type Chi2ContingencyResult struct {
	Statistic        *float64 `json:"statistic"`
	PValue           *float64 `json:"p_value"`
	DegreesOfFreedom *int     `json:"degrees_of_freedom"`
	CramersV         *float64 `json:"cramers_v"`
	TestName         string   `json:"test_name"`
	Description      string   `json:"description"`
}

type FishersExactResult struct {
	OddsRatio   *float64 `json:"odds_ratio"`
	PValue      *float64 `json:"p_value"`
	TestName    string   `json:"test_name"`
	Description string   `json:"description"`
}

type BarnardsExactResult struct {
	PValue      *float64 `json:"p_value"`
	PooledRate  *float64 `json:"pooled_rate"`
	TestName    string   `json:"test_name"`
	Description string   `json:"description"`
}

type GTestResult struct {
	Statistic        *float64 `json:"statistic"`
	PValue           *float64 `json:"p_value"`
	DegreesOfFreedom *int     `json:"degrees_of_freedom"`
	TestName         string   `json:"test_name"`
	Description      string   `json:"description"`
}

// EffectSizeSummary reports Cohen's h
type EffectSizeSummary struct {
	CohensH        float64        `json:"cohens_h"`
	Interpretation EffectCategory `json:"interpretation"`
}

// ResultsSummary is the verdict block
type ResultsSummary struct {
	IsSignificant         bool `json:"is_significant"`
	ConfidenceLevel       int  `json:"confidence_level"`
	RecommendedSampleSize int  `json:"recommended_sample_size"`
}

// NewTestsSummary maps procedure outcomes onto their wire shapes
func NewTestsSummary(outcomes map[string]TestOutcome) TestsSummary {
	z := outcomes[KeyZTest]
	chi := outcomes[KeyChiSquare]
	yates := outcomes[KeyChi2Contingency]
	fisher := outcomes[KeyFishersExact]
	barnard := outcomes[KeyBarnardsExact]
	g := outcomes[KeyGTest]

	return TestsSummary{
		ZTest: ZTestResult{
			ZScore:      z.Statistic,
			PValue:      z.PValue,
			Description: failureNote(z),
		},
		ChiSquare: ChiSquareResult{
			Statistic:        chi.Statistic,
			PValue:           chi.PValue,
			DegreesOfFreedom: chi.DegreesOfFreedom,
			Description:      failureNote(chi),
		},
		Chi2Contingency: Chi2ContingencyResult{
			Statistic:        yates.Statistic,
			PValue:           yates.PValue,
			DegreesOfFreedom: yates.DegreesOfFreedom,
			CramersV:         yates.Extra(ExtraCramersV),
			TestName:         yates.TestName,
			Description:      yates.Description,
		},
		FishersExact: FishersExactResult{
			OddsRatio:   fisher.Extra(ExtraOddsRatio),
			PValue:      fisher.PValue,
			TestName:    fisher.TestName,
			Description: fisher.Description,
		},
		BarnardsExact: BarnardsExactResult{
			PValue:      barnard.PValue,
			PooledRate:  barnard.Extra(ExtraPooledRate),
			TestName:    barnard.TestName,
			Description: barnard.Description,
		},
		GTest: GTestResult{
			Statistic:        g.Statistic,
			PValue:           g.PValue,
			DegreesOfFreedom: g.DegreesOfFreedom,
			TestName:         g.TestName,
			Description:      g.Description,
		},
	}
}

// failureNote surfaces the description only for failed procedures whose
// wire shape has no permanent description field
func failureNote(o TestOutcome) string {
	if !o.Failed() {
		return ""
	}
	return o.Description
}

// FailedProcedures lists the keys of procedures that produced no p-value
func (t TestsSummary) FailedProcedures() []string {
	var failed []string
	checks := []struct {
		key string
		p   *float64
	}{
		{KeyZTest, t.ZTest.PValue},
		{KeyChiSquare, t.ChiSquare.PValue},
		{KeyChi2Contingency, t.Chi2Contingency.PValue},
		{KeyFishersExact, t.FishersExact.PValue},
		{KeyBarnardsExact, t.BarnardsExact.PValue},
		{KeyGTest, t.GTest.PValue},
	}
	for _, c := range checks {
		if c.p == nil {
			failed = append(failed, c.key)
		}
	}
	return failed
}
