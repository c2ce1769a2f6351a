package reporting

import (
	"time"

	"dexboost-lab/internal/domain"
)

// Report is the analysis report over one dataset run.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Data Summary
	DataSummary DataSummary

	// Portfolio statistics over the simulated trade log
	Portfolio domain.PortfolioSummary

	// Token rows (filtered, sorted by detected_at)
	TokenRows []TokenRow

	// Trades is the full simulated trade log, chronological.
	Trades []domain.SimulationRecord

	// FiltersApplied describes the active filters, for the report header.
	FiltersApplied []string
}

// DataSummary describes the dataset the report covers.
type DataSummary struct {
	TotalSummaries    int
	FilteredSummaries int
	WorthItCount      int // label == 1 among filtered
	TotalTrades       int
	DateRangeStart    int64 // Unix ms
	DateRangeEnd      int64 // Unix ms
}

// TokenRow is one summary row in the report table.
type TokenRow struct {
	TokenMint        string
	TokenName        string
	BoostID          int
	FirstTrigger     domain.EventKind
	MaxVariationPct  float64
	MinVariationPct  float64
	SecondsToTrigger float64
	TokenAgeMinutes  float64
	MarketCap        int64
	TotalLiquidity   float64
	Label            int
}
