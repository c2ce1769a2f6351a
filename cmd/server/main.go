// Package main provides the long-running analysis service:
// - Pipeline (scheduled): load → normalization → analysis → simulation
// - Reporting (scheduled): REPORT.md and CSV exports
// - HTTP: /health, /metrics, /status
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"dexboost-lab/internal/config"
	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/filtering"
	"dexboost-lab/internal/fixtures"
	"dexboost-lab/internal/observability"
	"dexboost-lab/internal/orchestrator"
	"dexboost-lab/internal/reporting"
	"dexboost-lab/internal/storage"
	chstore "dexboost-lab/internal/storage/clickhouse"
	"dexboost-lab/internal/storage/memory"
	"dexboost-lab/internal/storage/migrations"
	pgstore "dexboost-lab/internal/storage/postgres"
)

// Server holds all components of the analysis service.
type Server struct {
	// Configuration
	cfg              domain.AnalysisConfig
	filters          []filtering.Filter
	workers          int
	outputDir        string
	pipelineInterval time.Duration
	reportInterval   time.Duration
	sinceWindow      time.Duration

	// Stores
	stores *allStores

	logger *log.Logger

	// State
	mu              sync.Mutex
	started         time.Time
	lastPipelineRun time.Time
	lastReportRun   time.Time
	pipelineRunning bool
	reportRunning   bool

	// Stats
	pipelineRuns int
	reportRuns   int
}

// allStores holds all storage implementations.
type allStores struct {
	tokenRecordStore      storage.TokenRecordStore
	priceSeriesStore      storage.PriceSeriesStore
	tokenSummaryStore     storage.TokenSummaryStore
	simulationRecordStore storage.SimulationRecordStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Endpoint defaults come from the environment (envconfig), flags override.
	pgCfg, err := config.Load[config.PostgresConfig]("")
	if err != nil {
		log.Fatalf("[server] load postgres config: %v", err)
	}
	chCfg, err := config.Load[config.ClickhouseConfig]("")
	if err != nil {
		log.Fatalf("[server] load clickhouse config: %v", err)
	}
	metricsCfg, err := config.Load[config.MetricsConfig]("")
	if err != nil {
		log.Fatalf("[server] load metrics config: %v", err)
	}
	analysisCfg, err := config.Load[config.AnalysisEnv]("")
	if err != nil {
		log.Fatalf("[server] load analysis config: %v", err)
	}

	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", pgCfg.DSN()), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", envOr("CLICKHOUSE_DSN", chCfg.DSN()), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with demo fixtures")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	pipelineInterval := flag.Duration("pipeline-interval", 1*time.Hour, "Pipeline run interval")
	reportInterval := flag.Duration("report-interval", 6*time.Hour, "Report generation interval")
	sinceWindow := flag.Duration("since", 7*24*time.Hour, "Only process records detected within this window (0 = all)")
	tpPercent := flag.Float64("tp", analysisCfg.TPPercent, "Take profit threshold in percent")
	slPercent := flag.Float64("sl", analysisCfg.SLPercent, "Stop loss threshold in percent")
	minDistance := flag.Int("min-distance", analysisCfg.MinDistance, "Minimum sample distance between extrema")
	stake := flag.Float64("stake", analysisCfg.Stake, "Fixed stake per simulated trade")
	workers := flag.Int("workers", analysisCfg.Workers, "Analysis worker count (0 = GOMAXPROCS)")
	filterSpec := flag.String("filters", "", `Report filters, e.g. "TokenAge < 10; MarketCap > 50000"`)
	metricsAddr := flag.String("metrics-addr", metricsCfg.Addr, "HTTP address for health/metrics/status")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg := domain.AnalysisConfig{
		Thresholds:  domain.ThresholdsFromPercent(*tpPercent, *slPercent),
		MinDistance: *minDistance,
		Stake:       *stake,
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	filters, err := parseFilters(*filterSpec)
	if err != nil {
		logger.Fatalf("Invalid filters: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores (runs migrations in DB mode)
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if *useMemory {
		if err := fixtures.LoadTokenRecords(ctx, stores.tokenRecordStore); err != nil {
			logger.Fatalf("Failed to load fixtures: %v", err)
		}
		logger.Println("Loaded demo fixtures into memory stores")
	}

	server := &Server{
		cfg:              cfg,
		filters:          filters,
		workers:          *workers,
		outputDir:        *outputDir,
		pipelineInterval: *pipelineInterval,
		reportInterval:   *reportInterval,
		sinceWindow:      *sinceWindow,
		stores:           stores,
		logger:           logger,
		started:          time.Now(),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go server.startHTTPServer(*metricsAddr)

	// Run the schedulers
	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores and applies migrations.
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

// Run starts the pipeline and report schedulers.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting analysis service...")

	errCh := make(chan error, 2)

	go func() {
		err := s.runPipelineScheduler(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("pipeline scheduler: %w", err)
		}
	}()

	go func() {
		err := s.runReportScheduler(ctx)
		if err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("report scheduler: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runPipelineScheduler runs the pipeline on schedule.
func (s *Server) runPipelineScheduler(ctx context.Context) error {
	s.logger.Printf("Starting pipeline scheduler (interval: %v)...", s.pipelineInterval)

	// Run immediately on start
	s.runPipeline(ctx)

	ticker := time.NewTicker(s.pipelineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

// runPipeline executes one pipeline pass.
func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.pipelineRunning {
		s.mu.Unlock()
		s.logger.Println("Pipeline already running, skipping...")
		return
	}
	s.pipelineRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pipelineRunning = false
		s.lastPipelineRun = time.Now()
		s.pipelineRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running pipeline...")
	start := time.Now()

	var sinceMs int64
	if s.sinceWindow > 0 {
		sinceMs = time.Now().Add(-s.sinceWindow).UnixMilli()
	}

	orch := orchestrator.New(orchestrator.Options{
		TokenRecordStore:      s.stores.tokenRecordStore,
		PriceSeriesStore:      s.stores.priceSeriesStore,
		TokenSummaryStore:     s.stores.tokenSummaryStore,
		SimulationRecordStore: s.stores.simulationRecordStore,
		Config:                s.cfg,
		Workers:               s.workers,
		SinceMs:               sinceMs,
		Verbose:               true,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return
	}

	s.logger.Printf("Pipeline completed in %v: %d records, %d series, %d summaries, %d trades (%d errors)",
		time.Since(start), result.RecordsLoaded, result.SeriesNormalized,
		result.SummariesCreated, result.TradesCreated, len(result.Errors))

	observability.RecordPipelineRun("success", time.Since(start).Seconds())
}

// runReportScheduler runs report generation on schedule.
func (s *Server) runReportScheduler(ctx context.Context) error {
	s.logger.Printf("Starting report scheduler (interval: %v)...", s.reportInterval)

	// Let the first pipeline pass land before the first report.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Minute):
	}

	s.runReport(ctx)

	ticker := time.NewTicker(s.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runReport(ctx)
		}
	}
}

// runReport generates the markdown report and CSV exports.
func (s *Server) runReport(ctx context.Context) {
	s.mu.Lock()
	if s.reportRunning {
		s.mu.Unlock()
		s.logger.Println("Report generation already running, skipping...")
		return
	}
	s.reportRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reportRunning = false
		s.lastReportRun = time.Now()
		s.reportRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Generating reports...")
	start := time.Now()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.logger.Printf("Failed to create output directory: %v", err)
		return
	}

	report, err := reporting.NewGenerator(s.stores.tokenSummaryStore, s.stores.simulationRecordStore).
		WithFilters(s.filters).
		Generate(ctx)
	if err != nil {
		s.logger.Printf("Report generation error: %v", err)
		return
	}

	files := map[string]string{
		"REPORT.md":              reporting.RenderMarkdown(report),
		"token_summaries.csv":    reporting.RenderCSV(report.TokenRows),
		"simulation_records.csv": reporting.RenderTradesCSV(report.Trades),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(s.outputDir, name), []byte(content), 0644); err != nil {
			s.logger.Printf("Failed to write %s: %v", name, err)
			return
		}
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	s.logger.Printf("Reports generated in %v to %s/", time.Since(start), s.outputDir)
}

// startHTTPServer starts the HTTP server for health/metrics/status.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string    `json:"status"`
	Uptime          string    `json:"uptime"`
	LastPipelineRun time.Time `json:"last_pipeline_run,omitempty"`
	LastReportRun   time.Time `json:"last_report_run,omitempty"`
	PipelineRuns    int       `json:"pipeline_runs"`
	ReportRuns      int       `json:"report_runs"`
	PipelineRunning bool      `json:"pipeline_running"`
	ReportRunning   bool      `json:"report_running"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		LastPipelineRun: s.lastPipelineRun,
		LastReportRun:   s.lastReportRun,
		PipelineRuns:    s.pipelineRuns,
		ReportRuns:      s.reportRuns,
		PipelineRunning: s.pipelineRunning,
		ReportRunning:   s.reportRunning,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
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

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
