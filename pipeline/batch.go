package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	ai "github.com/spetersoncode/pkextract"
)

// ExtractFunc extracts one input, e.g. Extractor.ExtractPKSummary.
type ExtractFunc func(ctx context.Context, in Input) (*Output, error)

// Failure records an input that could not be extracted.
type Failure struct {
	ID  string
	Err error
}

// BatchResult collects the outcome of RunBatch.
type BatchResult struct {
	// Outputs holds one entry per input, in input order. Entries of failed
	// inputs carry usage and trace but no table.
	Outputs  []*Output
	Failures []Failure
	Usage    ai.TokenUsage
}

// Succeeded returns the outputs that produced a table.
func (r *BatchResult) Succeeded() []*Output {
	var out []*Output
	for _, o := range r.Outputs {
		if o != nil && o.Table != nil {
			out = append(out, o)
		}
	}
	return out
}

// Summary describes the failures, one per line.
func (r *BatchResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d tables extracted", len(r.Outputs)-len(r.Failures), len(r.Outputs))
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "\n  %s: %v", f.ID, f.Err)
	}
	return b.String()
}

// RunBatch runs fn over independent inputs with at most concurrency runs in
// flight. A failing input is recorded and never aborts the others.
// Cancelling ctx fails the inputs not yet started.
func RunBatch(ctx context.Context, items []Input, fn ExtractFunc, concurrency int) *BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	res := &BatchResult{Outputs: make([]*Output, len(items))}
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	var mu sync.Mutex
	for i, in := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.Outputs[i] = &Output{ID: in.ID}
				errs[i] = err
				return nil
			}
			out, err := fn(ctx, in)
			if out == nil {
				out = &Output{ID: in.ID}
			}
			res.Outputs[i] = out
			errs[i] = err

			mu.Lock()
			res.Usage = res.Usage.Add(out.Usage)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			res.Failures = append(res.Failures, Failure{ID: items[i].ID, Err: err})
		}
	}
	return res
}
