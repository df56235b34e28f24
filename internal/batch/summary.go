package batch

import (
	"github.com/montanaflynn/stats"
)

// Summary aggregates a batch of results
type Summary struct {
	Total              int
	Analyzed           int
	Significant        int
	Failed             int
	MeanRelativeLift   float64 // percent, over analysed experiments with a non-zero control rate
	MedianRelativeLift float64
	MedianPValue       float64 // of the primary z-test
}

// Summarize computes counts and lift statistics for a batch
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}

	var lifts, pValues []float64
	for _, res := range results {
		if res.Err != nil || res.Report == nil {
			summary.Failed++
			continue
		}
		summary.Analyzed++

		report := res.Report
		if report.Results.IsSignificant {
			summary.Significant++
		}
		if report.Control.ConversionRate > 0 {
			lifts = append(lifts, report.Difference.Relative)
		}
		if p := report.StatisticalTests.ZTest.PValue; p != nil {
			pValues = append(pValues, *p)
		}
	}

	// montanaflynn/stats returns an error only for empty input, which leaves the zero value
	if mean, err := stats.Mean(lifts); err == nil {
		summary.MeanRelativeLift = round(mean)
	}
	if median, err := stats.Median(lifts); err == nil {
		summary.MedianRelativeLift = round(median)
	}
	if median, err := stats.Median(pValues); err == nil {
		summary.MedianPValue = median
	}
	return summary
}

func round(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
