package summary

import (
	"errors"
	"math"
	"testing"

	"dexboost-lab/internal/domain"
)

func makeSeries(prices []float64) *domain.TokenSeries {
	points := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = domain.PricePoint{OffsetSeconds: float64(i * 10), Price: p}
	}
	start := 0.0
	if len(prices) > 0 {
		start = prices[0]
	}
	return &domain.TokenSeries{
		SeriesID:   "s1",
		TokenMint:  "mint-A",
		BoostID:    1,
		StartPrice: start,
		Points:     points,
	}
}

func TestBuild_VariationsAndTimes(t *testing.T) {
	series := makeSeries([]float64{100, 140, 80, 120})
	event := domain.EventResult{Kind: domain.EventTakeProfit, TimeOffset: 10}

	s, err := Build(series, event, domain.NoRugSignal)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if math.Abs(s.MaxVariationPct-40) > 1e-9 {
		t.Errorf("max variation = %v, want 40", s.MaxVariationPct)
	}
	if math.Abs(s.MinVariationPct+20) > 1e-9 {
		t.Errorf("min variation = %v, want -20", s.MinVariationPct)
	}
	if s.TimeOfMax != 10 {
		t.Errorf("time of max = %v, want 10", s.TimeOfMax)
	}
	if s.TimeOfMin != 20 {
		t.Errorf("time of min = %v, want 20", s.TimeOfMin)
	}
	if s.FirstTrigger != domain.EventTakeProfit || s.SecondsToTrigger != 10 {
		t.Errorf("trigger = (%s, %v), want (TP, 10)", s.FirstTrigger, s.SecondsToTrigger)
	}
}

func TestBuild_FirstOccurrenceWinsTies(t *testing.T) {
	// The max variation 30% appears at t=10 and again at t=30.
	series := makeSeries([]float64{100, 130, 110, 130})
	event := domain.EventResult{Kind: domain.EventNoTrigger, TimeOffset: 30}

	s, err := Build(series, event, domain.NoRugSignal)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.TimeOfMax != 10 {
		t.Errorf("time of max = %v, want first occurrence 10", s.TimeOfMax)
	}
}

func TestBuild_RugSignalPassedThrough(t *testing.T) {
	series := makeSeries([]float64{100, 110})
	event := domain.EventResult{Kind: domain.EventNoTrigger, TimeOffset: 10}

	rug := domain.RugSignal{HasRugPull: true, RugPullSeconds: 42}
	s, err := Build(series, event, rug)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !s.HasRugPull || s.RugPullSeconds != 42 {
		t.Errorf("rug signal = (%t, %v), want (true, 42)", s.HasRugPull, s.RugPullSeconds)
	}
}

func TestBuild_DefaultRugSentinel(t *testing.T) {
	series := makeSeries([]float64{100, 110})
	event := domain.EventResult{Kind: domain.EventNoTrigger, TimeOffset: 10}

	s, err := Build(series, event, domain.NoRugSignal)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.HasRugPull || s.RugPullSeconds != domain.RugPullSecondsNone {
		t.Errorf("rug defaults = (%t, %v), want (false, %d)",
			s.HasRugPull, s.RugPullSeconds, domain.RugPullSecondsNone)
	}
}

func TestBuild_InvalidSeries(t *testing.T) {
	series := makeSeries(nil)

	_, err := Build(series, domain.EventResult{}, domain.NoRugSignal)
	if !errors.Is(err, domain.ErrInvalidSeries) {
		t.Errorf("error = %v, want ErrInvalidSeries", err)
	}
}

func TestEnrich_CopiesMetadata(t *testing.T) {
	s := &domain.TokenSummary{SeriesID: "s1"}
	record := &domain.TokenRecord{
		TokenName:           "JATE",
		DetectedAt:          1704067200000,
		MarketCap:           500000,
		TotalLiquidity:      12000,
		AdjustedBoostAmount: 50,
		RugScore:            3,
		TokenAgeMs:          600000,
	}

	Enrich(s, record)

	if s.TokenName != "JATE" || s.MarketCap != 500000 {
		t.Errorf("metadata not copied: %+v", s)
	}
	if s.TokenAgeMinutes != 10 {
		t.Errorf("token age = %v minutes, want 10", s.TokenAgeMinutes)
	}
}
