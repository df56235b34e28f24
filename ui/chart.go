package ui

import (
	"fmt"
	"html/template"

	"abtest/domain/abtest"
)

// chartBar is one arm of the conversion rate chart. Widths are percentages of
// the largest interval upper bound so both arms share a scale.
type chartBar struct {
	Label    string
	Rate     float64
	Lower    float64
	Upper    float64
	Bar      template.CSS
	Interval template.CSS
}

// rateChart lays out the control and variation rates with their intervals
func rateChart(r abtest.Report) []chartBar {
	scale := max(r.Control.CIUpper, r.Variation.CIUpper, r.Control.ConversionRate, r.Variation.ConversionRate)
	if scale <= 0 {
		scale = 1
	}

	bar := func(label string, g abtest.GroupSummary) chartBar {
		lower := g.CILower / scale * 100
		upper := g.CIUpper / scale * 100
		return chartBar{
			Label:    label,
			Rate:     g.ConversionRate,
			Lower:    g.CILower,
			Upper:    g.CIUpper,
			Bar:      template.CSS(fmt.Sprintf("width: %.2f%%", g.ConversionRate/scale*100)),
			Interval: template.CSS(fmt.Sprintf("left: %.2f%%; width: %.2f%%", lower, upper-lower)),
		}
	}

	return []chartBar{
		bar("Control", r.Control),
		bar("Variation", r.Variation),
	}
}
