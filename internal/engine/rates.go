package engine

import "abtest/domain/abtest"

// Difference is variation minus control
type Difference struct {
	Absolute float64
	Relative float64 // percent of the control rate, 0 when the control rate is 0
}

// CompareRates computes the absolute and relative difference of two groups
func CompareRates(control, variation abtest.SampleGroup) Difference {
	controlRate := control.Rate()
	absolute := variation.Rate() - controlRate

	relative := 0.0
	if controlRate > 0 {
		relative = absolute / controlRate * 100
	}
	return Difference{Absolute: absolute, Relative: relative}
}
