// Package analysis evaluates token series independently: event detection,
// extrema scanning, summary building, and labeling.
package analysis

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/event"
	"dexboost-lab/internal/extrema"
	"dexboost-lab/internal/labeling"
	"dexboost-lab/internal/summary"
)

// Result is the complete evaluation of one token series.
type Result struct {
	SeriesID  string
	TokenMint string
	Event     domain.EventResult
	Extrema   domain.ExtremaSet
	Summary   *domain.TokenSummary
	Clauses   []string // labeling clauses that fired
}

// Failure records one series that could not be evaluated. Failures are
// collected, never silently dropped: skipped tokens must stay countable.
type Failure struct {
	SeriesID  string
	TokenMint string
	Err       error
}

// RunResult holds all per-token outcomes of one batch run.
type RunResult struct {
	Results  []Result // sorted by series id
	Failures []Failure
}

// Runner evaluates batches of token series across a worker pool. Tokens
// share no mutable state, so evaluation order is irrelevant; results are
// sorted afterwards for deterministic output.
type Runner struct {
	labeler *labeling.Labeler
	workers int
}

// NewRunner creates a Runner with the default worth-it labeler.
// workers <= 0 selects GOMAXPROCS.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		labeler: labeling.NewLabeler(),
		workers: workers,
	}
}

// Run evaluates every series under cfg. The config is validated once up
// front; a config error aborts the whole run before any per-token work.
// Per-token failures are isolated into the failure list and do not stop
// the batch. Rug signals are looked up per series id; absent entries get
// domain.NoRugSignal.
func (r *Runner) Run(ctx context.Context, serieses []*domain.TokenSeries, cfg domain.AnalysisConfig, rugSignals map[string]domain.RugSignal) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jobs := make(chan *domain.TokenSeries)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for series := range jobs {
				outcomes <- r.evaluate(series, cfg, rugSignals)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range serieses {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Barrier: every per-token outcome is collected before the caller can
	// aggregate over the set.
	run := &RunResult{}
	for o := range outcomes {
		if o.failure != nil {
			run.Failures = append(run.Failures, *o.failure)
			continue
		}
		run.Results = append(run.Results, *o.result)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(run.Results, func(i, j int) bool {
		return run.Results[i].SeriesID < run.Results[j].SeriesID
	})
	sort.Slice(run.Failures, func(i, j int) bool {
		return run.Failures[i].SeriesID < run.Failures[j].SeriesID
	})

	return run, nil
}

// outcome is either a Result or a Failure for one series.
type outcome struct {
	result  *Result
	failure *Failure
}

// evaluate runs the full per-token path for one series.
func (r *Runner) evaluate(series *domain.TokenSeries, cfg domain.AnalysisConfig, rugSignals map[string]domain.RugSignal) outcome {
	fail := func(err error) outcome {
		return outcome{failure: &Failure{SeriesID: series.SeriesID, TokenMint: series.TokenMint, Err: err}}
	}

	evt, err := event.Detect(series, cfg.Thresholds)
	if err != nil {
		return fail(err)
	}

	extremaSet := extrema.Find(series, cfg.MinDistance)

	rug, ok := rugSignals[series.SeriesID]
	if !ok {
		rug = domain.NoRugSignal
	}

	sum, err := summary.Build(series, evt, rug)
	if err != nil {
		return fail(err)
	}
	sum.Label = r.labeler.Label(sum)

	return outcome{result: &Result{
		SeriesID:  series.SeriesID,
		TokenMint: series.TokenMint,
		Event:     evt,
		Extrema:   extremaSet,
		Summary:   sum,
		Clauses:   r.labeler.Explain(sum),
	}}
}
