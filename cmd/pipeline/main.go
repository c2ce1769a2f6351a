// Package main provides the E2E pipeline entry point.
// Executes: load → normalization → analysis → simulation → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/filtering"
	"dexboost-lab/internal/fixtures"
	"dexboost-lab/internal/orchestrator"
	"dexboost-lab/internal/reporting"
	"dexboost-lab/internal/storage"
	chstore "dexboost-lab/internal/storage/clickhouse"
	"dexboost-lab/internal/storage/memory"
	"dexboost-lab/internal/storage/migrations"
	pgstore "dexboost-lab/internal/storage/postgres"
)

func main() {
	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with demo fixtures")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated reports")
	tpPercent := flag.Float64("tp", 30, "Take profit threshold in percent")
	slPercent := flag.Float64("sl", -90, "Stop loss threshold in percent")
	minDistance := flag.Int("min-distance", 5, "Minimum sample distance between extrema")
	stake := flag.Float64("stake", 200, "Fixed stake per simulated trade")
	workers := flag.Int("workers", 0, "Analysis worker count (0 = GOMAXPROCS)")
	since := flag.Duration("since", 0, "Only process records detected within this window (0 = all)")
	filterSpec := flag.String("filters", "", `Report filters, e.g. "TokenAge < 10; MarketCap > 50000"`)
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	cfg := domain.AnalysisConfig{
		Thresholds:  domain.ThresholdsFromPercent(*tpPercent, *slPercent),
		MinDistance: *minDistance,
		Stake:       *stake,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	filters, err := parseFilters(*filterSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid filters: %v\n", err)
		os.Exit(1)
	}

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		fmt.Fprintln(os.Stderr, "--postgres-dsn and --clickhouse-dsn are required (use --use-memory for a demo run)")
		os.Exit(1)
	}

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// Memory mode runs on generated fixtures so the full flow is visible
	// without a collector database.
	if *useMemory {
		if err := fixtures.LoadTokenRecords(ctx, stores.tokenRecordStore); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
	}

	var sinceMs int64
	if *since > 0 {
		sinceMs = time.Now().Add(-*since).UnixMilli()
	}

	fmt.Println("=== Boost Analysis Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		TokenRecordStore:      stores.tokenRecordStore,
		PriceSeriesStore:      stores.priceSeriesStore,
		TokenSummaryStore:     stores.tokenSummaryStore,
		SimulationRecordStore: stores.simulationRecordStore,
		Config:                cfg,
		Workers:               *workers,
		SinceMs:               sinceMs,
		Verbose:               *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Orchestrator completed:\n")
	fmt.Printf("  Records:   %d\n", result.RecordsLoaded)
	fmt.Printf("  Series:    %d\n", result.SeriesNormalized)
	fmt.Printf("  Summaries: %d\n", result.SummariesCreated)
	fmt.Printf("  Trades:    %d\n", result.TradesCreated)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	// Reporting
	fmt.Println("\n=== Reporting ===")
	if err := writeReports(ctx, stores, filters, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Reporting error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nPipeline completed successfully:")
	fmt.Printf("  - %s/REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/token_summaries.csv\n", *outputDir)
	fmt.Printf("  - %s/simulation_records.csv\n", *outputDir)
}

// allStores holds all storage implementations.
type allStores struct {
	tokenRecordStore      storage.TokenRecordStore
	priceSeriesStore      storage.PriceSeriesStore
	tokenSummaryStore     storage.TokenSummaryStore
	simulationRecordStore storage.SimulationRecordStore
}

// createStores creates all required stores, running migrations in DB mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			tokenRecordStore:      memory.NewTokenRecordStore(),
			priceSeriesStore:      memory.NewPriceSeriesStore(),
			tokenSummaryStore:     memory.NewTokenSummaryStore(),
			simulationRecordStore: memory.NewSimulationRecordStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		tokenRecordStore:      pgstore.NewTokenRecordStore(pool),
		tokenSummaryStore:     pgstore.NewTokenSummaryStore(pool),
		simulationRecordStore: pgstore.NewSimulationRecordStore(pool),
		priceSeriesStore:      chstore.NewPriceSeriesStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// parseFilters parses a semicolon-separated filter spec such as
// "TokenAge < 10; MarketCap > 50000".
func parseFilters(spec string) ([]filtering.Filter, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var filters []filtering.Filter
	for _, clause := range strings.Split(spec, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		parts := strings.SplitN(clause, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed filter %q, want \"Field Op Value\"", clause)
		}
		f, err := filtering.Parse(parts[0], strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// writeReports generates the markdown report and CSV exports.
func writeReports(ctx context.Context, stores *allStores, filters []filtering.Filter, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	report, err := reporting.NewGenerator(stores.tokenSummaryStore, stores.simulationRecordStore).
		WithFilters(filters).
		Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	files := map[string]string{
		"REPORT.md":              reporting.RenderMarkdown(report),
		"token_summaries.csv":    reporting.RenderCSV(report.TokenRows),
		"simulation_records.csv": reporting.RenderTradesCSV(report.Trades),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	fmt.Printf("Report covers %d summaries (%d after filters), %d trades\n",
		report.DataSummary.TotalSummaries, report.DataSummary.FilteredSummaries, report.DataSummary.TotalTrades)
	return nil
}
