package procedures

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"abtest/domain/abtest"
	"abtest/internal/errors"
)

// Result is the raw output of a procedure before it is checked and labelled
type Result struct {
	Statistic        *float64
	PValue           *float64
	DegreesOfFreedom *int
	Extras           map[string]float64
	Note             string // replaces the default description when set
}

// Procedure is one hypothesis test over a 2x2 contingency table
type Procedure interface {
	Key() string
	TestName() string
	Description() string
	Evaluate(table Table) (Result, error)
}

// Suite evaluates every procedure independently; a failure in one never
// affects the others
type Suite struct {
	procedures []Procedure
}

// NewSuite creates the default suite of six procedures
func NewSuite() *Suite {
	return NewSuiteWith(
		NewZTest(),
		NewChiSquare(),
		NewYatesChiSquare(),
		NewFisherExact(),
		NewBarnardApprox(),
		NewGTest(),
	)
}

// NewSuiteWith creates a suite from explicit procedures
func NewSuiteWith(procs ...Procedure) *Suite {
	return &Suite{procedures: procs}
}

// RunAll evaluates all procedures concurrently and returns outcomes by key
func (s *Suite) RunAll(in abtest.Input) map[string]abtest.TestOutcome {
	table := NewTable(in)
	outcomes := make([]abtest.TestOutcome, len(s.procedures))

	var g errgroup.Group
	for i, proc := range s.procedures {
		g.Go(func() error {
			outcomes[i] = Evaluate(proc, table)
			return nil
		})
	}
	// Evaluate never returns an error to the group
	_ = g.Wait()

	byKey := make(map[string]abtest.TestOutcome, len(outcomes))
	for _, o := range outcomes {
		byKey[o.Key] = o
	}
	return byKey
}

// Run evaluates a single procedure by key
func (s *Suite) Run(key string, in abtest.Input) (abtest.TestOutcome, bool) {
	for _, proc := range s.procedures {
		if proc.Key() == key {
			return Evaluate(proc, NewTable(in)), true
		}
	}
	return abtest.TestOutcome{}, false
}

// Keys lists the procedure keys in evaluation order
func (s *Suite) Keys() []string {
	keys := make([]string, len(s.procedures))
	for i, proc := range s.procedures {
		keys[i] = proc.Key()
	}
	return keys
}

// Evaluate runs proc on table, converting panics, errors and non-finite
// numbers into a failed outcome with null fields
func Evaluate(proc Procedure, table Table) (outcome abtest.TestOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = failed(proc, errors.Computationf("%v", r))
		}
	}()

	res, err := proc.Evaluate(table)
	if err != nil {
		return failed(proc, err)
	}
	if err := checkFinite(res); err != nil {
		return failed(proc, err)
	}

	description := proc.Description()
	if res.Note != "" {
		description = res.Note
	}
	return abtest.TestOutcome{
		Key:              proc.Key(),
		TestName:         proc.TestName(),
		Description:      description,
		Statistic:        res.Statistic,
		PValue:           res.PValue,
		DegreesOfFreedom: res.DegreesOfFreedom,
		Extras:           res.Extras,
	}
}

func failed(proc Procedure, err error) abtest.TestOutcome {
	return abtest.TestOutcome{
		Key:         proc.Key(),
		TestName:    proc.TestName(),
		Description: fmt.Sprintf("Error: %v", err),
		Err:         errors.WithCode(errors.CodeComputationError, err),
	}
}

func checkFinite(res Result) error {
	if res.Statistic != nil && !isFinite(*res.Statistic) {
		return errors.Computationf("statistic is not finite (%v)", *res.Statistic)
	}
	if res.PValue != nil {
		p := *res.PValue
		if !isFinite(p) || p < 0 || p > 1 {
			return errors.Computationf("p-value %v is outside [0, 1]", p)
		}
	}
	for name, v := range res.Extras {
		if !isFinite(v) {
			return errors.Computationf("%s is not finite (%v)", name, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
