// Package main analyzes a single boosted token end-to-end: parse its
// price history, detect the first threshold crossing, label the outcome
// and simulate the fixed-stake trade.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"dexboost-lab/internal/analysis"
	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/normalization"
	"dexboost-lab/internal/simulation"
	pgstore "dexboost-lab/internal/storage/postgres"
)

func main() {
	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	mint := flag.String("mint", "", "Token mint to load from the database")
	file := flag.String("file", "", "Path to a raw price-history payload file (instead of --mint)")
	detectedAt := flag.String("detected-at", "", "Detection time for --file mode (RFC3339, default: first sample)")
	tpPercent := flag.Float64("tp", 30, "Take profit threshold in percent")
	slPercent := flag.Float64("sl", -90, "Stop loss threshold in percent")
	minDistance := flag.Int("min-distance", 5, "Minimum sample distance between extrema")
	stake := flag.Float64("stake", 200, "Fixed stake for the simulated trade")
	jsonOut := flag.Bool("json", false, "Emit JSON instead of human-readable output")
	flag.Parse()

	if (*mint == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --mint or --file is required")
		os.Exit(1)
	}

	cfg := domain.AnalysisConfig{
		Thresholds:  domain.ThresholdsFromPercent(*tpPercent, *slPercent),
		MinDistance: *minDistance,
		Stake:       *stake,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	records, err := loadRecords(ctx, *mint, *file, *detectedAt, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		os.Exit(1)
	}

	normalization.AssignBoostCycles(records)

	var serieses []*domain.TokenSeries
	for _, r := range records {
		series, err := normalization.ParseSeries(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping boost %d: %v\n", r.BoostID, err)
			continue
		}
		serieses = append(serieses, series)
	}
	if len(serieses) == 0 {
		fmt.Fprintln(os.Stderr, "No usable price history")
		os.Exit(1)
	}

	runResult, err := analysis.NewRunner(1).Run(ctx, serieses, cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range runResult.Failures {
		fmt.Fprintf(os.Stderr, "Analysis failure for %s: %v\n", f.TokenMint, f.Err)
	}

	events := make([]simulation.TokenEvent, 0, len(runResult.Results))
	for _, res := range runResult.Results {
		events = append(events, simulation.TokenEvent{
			SeriesID:  res.SeriesID,
			TokenMint: res.TokenMint,
			Event:     res.Event,
		})
	}
	trades, portfolio, err := simulation.Simulate(events, cfg.Stake)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(runResult.Results, trades, portfolio)
		return
	}
	printHuman(runResult.Results, trades, portfolio)
}

// loadRecords fetches every boost cycle for the mint from the database,
// or builds a single synthetic record around a payload file.
func loadRecords(ctx context.Context, mint, file, detectedAt, postgresDSN string) ([]*domain.TokenRecord, error) {
	if file != "" {
		payload, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		record := &domain.TokenRecord{
			TokenMint:    "file:" + file,
			TokenName:    file,
			PriceHistory: string(payload),
		}
		if detectedAt != "" {
			ts, err := time.Parse(time.RFC3339, detectedAt)
			if err != nil {
				return nil, fmt.Errorf("parse --detected-at: %w", err)
			}
			record.DetectedAt = ts.UnixMilli()
		} else {
			ts, err := normalization.FirstSampleTime(string(payload))
			if err != nil {
				return nil, fmt.Errorf("anchor payload: %w", err)
			}
			record.DetectedAt = ts.UnixMilli()
		}
		return []*domain.TokenRecord{record}, nil
	}

	if postgresDSN == "" {
		return nil, fmt.Errorf("--postgres-dsn is required with --mint")
	}
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	return pgstore.NewTokenRecordStore(pool).GetByMint(ctx, mint)
}

// analyzeOutput is the JSON shape for --json mode.
type analyzeOutput struct {
	Summaries []*domain.TokenSummary    `json:"summaries"`
	Trades    []domain.SimulationRecord `json:"trades"`
	Portfolio domain.PortfolioSummary   `json:"portfolio"`
}

func printJSON(results []analysis.Result, trades []domain.SimulationRecord, portfolio domain.PortfolioSummary) {
	out := analyzeOutput{Trades: trades, Portfolio: portfolio}
	for _, res := range results {
		out.Summaries = append(out.Summaries, res.Summary)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Encode error: %v\n", err)
		os.Exit(1)
	}
}

func printHuman(results []analysis.Result, trades []domain.SimulationRecord, portfolio domain.PortfolioSummary) {
	for _, res := range results {
		s := res.Summary
		fmt.Printf("Boost %d (%s)\n", s.BoostID, res.SeriesID)
		fmt.Printf("  First trigger:   %s\n", res.Event.Kind)
		if res.Event.Kind != domain.EventNoTrigger {
			fmt.Printf("  Trigger after:   %.1fs\n", s.SecondsToTrigger)
		}
		fmt.Printf("  Max variation:   %+.2f%% at %.1fs\n", s.MaxVariationPct, s.TimeOfMax)
		fmt.Printf("  Min variation:   %+.2f%% at %.1fs\n", s.MinVariationPct, s.TimeOfMin)
		fmt.Printf("  Label:           %d\n", s.Label)
	}

	fmt.Println("\nSimulated trades:")
	for _, t := range trades {
		fmt.Printf("  %-12s %+8.2f%%  profit %+.2f\n", t.EventKind, t.EffectPct, t.Profit)
	}
	fmt.Printf("\nPortfolio: %d trades, win rate %.1f%%, total profit %+.2f\n",
		portfolio.TotalTrades, portfolio.WinRatePct, portfolio.TotalProfit)
}
