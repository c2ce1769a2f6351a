// Package orchestrator provides E2E pipeline orchestration.
// It coordinates: normalization → analysis → labeling → simulation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dexboost-lab/internal/analysis"
	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/normalization"
	"dexboost-lab/internal/simulation"
	"dexboost-lab/internal/storage"
	"dexboost-lab/internal/summary"
)

// Orchestrator coordinates the E2E pipeline execution.
type Orchestrator struct {
	// Stores
	tokenRecordStore      storage.TokenRecordStore
	priceSeriesStore      storage.PriceSeriesStore
	tokenSummaryStore     storage.TokenSummaryStore
	simulationRecordStore storage.SimulationRecordStore

	// Analysis configuration
	cfg        domain.AnalysisConfig
	rugSignals map[string]domain.RugSignal
	workers    int
	sinceMs    int64

	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	TokenRecordStore      storage.TokenRecordStore
	PriceSeriesStore      storage.PriceSeriesStore
	TokenSummaryStore     storage.TokenSummaryStore
	SimulationRecordStore storage.SimulationRecordStore

	// Analysis configuration
	Config domain.AnalysisConfig

	// RugSignals maps series id to an externally supplied rug-pull flag.
	// Series without an entry get domain.NoRugSignal.
	RugSignals map[string]domain.RugSignal

	// Workers for the analysis pool; <= 0 selects GOMAXPROCS.
	Workers int

	// SinceMs restricts the run to records detected at or after this Unix
	// millisecond timestamp; zero processes everything.
	SinceMs int64

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		tokenRecordStore:      opts.TokenRecordStore,
		priceSeriesStore:      opts.PriceSeriesStore,
		tokenSummaryStore:     opts.TokenSummaryStore,
		simulationRecordStore: opts.SimulationRecordStore,
		cfg:                   opts.Config,
		rugSignals:            opts.RugSignals,
		workers:               opts.Workers,
		sinceMs:               opts.SinceMs,
		verbose:               opts.Verbose,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	RecordsLoaded    int
	SeriesNormalized int
	SummariesCreated int
	TradesCreated    int
	Portfolio        domain.PortfolioSummary
	Errors           []string
}

// Run executes the full E2E pipeline.
// Phases:
//  1. Load token records
//  2. Normalize records into price series
//  3. Analyze each series (events, extrema, summary, label)
//  4. Simulate fixed-stake trades and aggregate the portfolio
//
// Per-token problems land in RunResult.Errors; only configuration or
// storage failures abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	// Phase 1: Load token records, optionally only recent ones
	o.log("Phase 1: Loading token records...")
	var records []*domain.TokenRecord
	var err error
	if o.sinceMs > 0 {
		records, err = o.tokenRecordStore.GetDetectedSince(ctx, o.sinceMs)
	} else {
		records, err = o.tokenRecordStore.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load records) failed: %w", err)
	}
	result.RecordsLoaded = len(records)
	o.log("  Found %d records", len(records))

	if len(records) == 0 {
		return result, nil
	}

	// Phase 2: Normalization
	o.log("Phase 2: Normalizing price histories...")
	serieses, bySeriesID, normErrors := o.runNormalization(ctx, records)
	result.SeriesNormalized = len(serieses)
	result.Errors = append(result.Errors, normErrors...)
	o.log("  Normalized %d series (%d errors)", len(serieses), len(normErrors))

	if len(serieses) == 0 {
		return result, nil
	}

	// Phase 3: Analysis
	o.log("Phase 3: Analyzing series...")
	runResult, err := analysis.NewRunner(o.workers).Run(ctx, serieses, o.cfg, o.rugSignals)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (analysis) failed: %w", err)
	}
	for _, f := range runResult.Failures {
		result.Errors = append(result.Errors, fmt.Sprintf("analyze %s: %v", f.TokenMint, f.Err))
	}

	summariesCreated, persistErrors := o.persistSummaries(ctx, runResult.Results, bySeriesID)
	result.SummariesCreated = summariesCreated
	result.Errors = append(result.Errors, persistErrors...)
	o.log("  Stored %d summaries (%d analysis failures)", summariesCreated, len(runResult.Failures))

	// Phase 4: Simulation
	o.log("Phase 4: Simulating trades...")
	tradesCreated, portfolio, simErrors := o.runSimulation(ctx, runResult.Results)
	result.TradesCreated = tradesCreated
	result.Portfolio = portfolio
	result.Errors = append(result.Errors, simErrors...)
	o.log("  Created %d trades (%d errors)", tradesCreated, len(simErrors))

	o.log("Pipeline completed: %d records, %d series, %d summaries, %d trades",
		result.RecordsLoaded, result.SeriesNormalized, result.SummariesCreated, result.TradesCreated)

	return result, nil
}

// runNormalization assigns boost cycles, parses every price history, and
// persists the resulting series. Unparseable records are reported, not fatal.
func (o *Orchestrator) runNormalization(ctx context.Context, records []*domain.TokenRecord) ([]*domain.TokenSeries, map[string]*domain.TokenRecord, []string) {
	normalization.AssignBoostCycles(records)

	var serieses []*domain.TokenSeries
	bySeriesID := make(map[string]*domain.TokenRecord, len(records))
	var errs []string

	for _, r := range records {
		series, err := normalization.ParseSeries(r)
		if err != nil {
			errs = append(errs, fmt.Sprintf("normalize %s boost %d: %v", r.TokenMint, r.BoostID, err))
			continue
		}

		if err := o.priceSeriesStore.InsertSeries(ctx, series.SeriesID, series.Points); err != nil {
			// Skip duplicate key errors (already normalized)
			if !errors.Is(err, storage.ErrDuplicateKey) {
				errs = append(errs, fmt.Sprintf("store series %s: %v", series.SeriesID, err))
				continue
			}
		}

		serieses = append(serieses, series)
		bySeriesID[series.SeriesID] = r
	}

	return serieses, bySeriesID, errs
}

// persistSummaries enriches each summary with its record metadata and stores it.
func (o *Orchestrator) persistSummaries(ctx context.Context, results []analysis.Result, bySeriesID map[string]*domain.TokenRecord) (int, []string) {
	var created int
	var errs []string

	for i := range results {
		res := &results[i]
		if record, ok := bySeriesID[res.SeriesID]; ok {
			summary.Enrich(res.Summary, record)
		}

		if err := o.tokenSummaryStore.Insert(ctx, res.Summary); err != nil {
			// Skip duplicate key errors (already analyzed)
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			errs = append(errs, fmt.Sprintf("store summary %s: %v", res.SeriesID, err))
			continue
		}
		created++
	}

	return created, errs
}

// runSimulation maps analysis results to fixed-stake trades and persists them.
func (o *Orchestrator) runSimulation(ctx context.Context, results []analysis.Result) (int, domain.PortfolioSummary, []string) {
	events := make([]simulation.TokenEvent, 0, len(results))
	for _, res := range results {
		events = append(events, simulation.TokenEvent{
			SeriesID:  res.SeriesID,
			TokenMint: res.TokenMint,
			Event:     res.Event,
		})
	}

	records, portfolio, err := simulation.Simulate(events, o.cfg.Stake)
	if err != nil {
		return 0, domain.PortfolioSummary{}, []string{fmt.Sprintf("simulate: %v", err)}
	}

	var created int
	var errs []string
	for i := range records {
		if err := o.simulationRecordStore.Insert(ctx, &records[i]); err != nil {
			// Skip duplicate key errors (already simulated)
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			errs = append(errs, fmt.Sprintf("store trade %s: %v", records[i].TradeID, err))
			continue
		}
		created++
	}

	return created, portfolio, errs
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
