package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"abtest/domain/abtest"
	"abtest/internal/engine"
	"abtest/internal/errors"
)

// Item is one experiment to analyse; Err is set when its source row could not be parsed
type Item struct {
	Row   int
	Name  string
	Input abtest.Input
	Err   error
}

// Result pairs an item with its report, or with the reason it was not analysed
type Result struct {
	Item   Item
	Report *abtest.Report
	Err    error
}

// Runner analyses many experiments with bounded concurrency
type Runner struct {
	engine      *engine.Engine
	concurrency int
}

// NewRunner creates a batch runner; concurrency below 1 means 1
func NewRunner(e *engine.Engine, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{engine: e, concurrency: concurrency}
}

// Run analyses every item. Invalid items produce a Result with Err and do not
// stop the batch; only context cancellation does. Results keep item order.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Result, error) {
	results := make([]Result, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.analyze(item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch analysis cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch analysis cancelled")
	}
	return results, nil
}

func (r *Runner) analyze(item Item) Result {
	if item.Err != nil {
		return Result{Item: item, Err: item.Err}
	}
	if err := item.Input.Validate(); err != nil {
		return Result{Item: item, Err: err}
	}
	report := r.engine.Analyze(item.Input)
	return Result{Item: item, Report: &report}
}
