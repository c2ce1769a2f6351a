package reporting

import (
	"context"
	"fmt"
	"time"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/filtering"
	"dexboost-lab/internal/simulation"
	"dexboost-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	summaryStore    storage.TokenSummaryStore
	simulationStore storage.SimulationRecordStore
	filters         []filtering.Filter
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(summaryStore storage.TokenSummaryStore, simulationStore storage.SimulationRecordStore) *Generator {
	return &Generator{
		summaryStore:    summaryStore,
		simulationStore: simulationStore,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithFilters sets the token filters applied before the report table.
func (g *Generator) WithFilters(filters []filtering.Filter) *Generator {
	g.filters = filters
	return g
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report over all stored summaries and trades.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	summaries, err := g.summaryStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	trades, err := g.simulationStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load simulation records: %w", err)
	}

	filtered, err := filtering.Apply(summaries, g.filters)
	if err != nil {
		return nil, fmt.Errorf("apply filters: %w", err)
	}

	records := make([]domain.SimulationRecord, len(trades))
	for i, t := range trades {
		records[i] = *t
	}

	report := &Report{
		GeneratedAt:    g.now(),
		DataSummary:    buildDataSummary(summaries, filtered, trades),
		Portfolio:      simulation.Summarize(records),
		TokenRows:      buildTokenRows(filtered),
		Trades:         records,
		FiltersApplied: describeFilters(g.filters),
	}

	return report, nil
}

func buildDataSummary(all, filtered []*domain.TokenSummary, trades []*domain.SimulationRecord) DataSummary {
	ds := DataSummary{
		TotalSummaries:    len(all),
		FilteredSummaries: len(filtered),
		TotalTrades:       len(trades),
	}

	for _, s := range filtered {
		if s.Label == 1 {
			ds.WorthItCount++
		}
	}

	if len(all) > 0 {
		ds.DateRangeStart = all[0].DetectedAt
		ds.DateRangeEnd = all[0].DetectedAt
		for _, s := range all {
			if s.DetectedAt < ds.DateRangeStart {
				ds.DateRangeStart = s.DetectedAt
			}
			if s.DetectedAt > ds.DateRangeEnd {
				ds.DateRangeEnd = s.DetectedAt
			}
		}
	}

	return ds
}

func buildTokenRows(filtered []*domain.TokenSummary) []TokenRow {
	rows := make([]TokenRow, 0, len(filtered))
	for _, s := range filtered {
		rows = append(rows, TokenRow{
			TokenMint:        s.TokenMint,
			TokenName:        s.TokenName,
			BoostID:          s.BoostID,
			FirstTrigger:     s.FirstTrigger,
			MaxVariationPct:  s.MaxVariationPct,
			MinVariationPct:  s.MinVariationPct,
			SecondsToTrigger: s.SecondsToTrigger,
			TokenAgeMinutes:  s.TokenAgeMinutes,
			MarketCap:        s.MarketCap,
			TotalLiquidity:   s.TotalLiquidity,
			Label:            s.Label,
		})
	}
	return rows
}

func describeFilters(filters []filtering.Filter) []string {
	if len(filters) == 0 {
		return nil
	}
	described := make([]string, 0, len(filters))
	for _, f := range filters {
		described = append(described, fmt.Sprintf("%s %s %g", f.Field, f.Op, f.Value))
	}
	return described
}
