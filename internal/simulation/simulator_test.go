package simulation

import (
	"errors"
	"math"
	"testing"

	"dexboost-lab/internal/domain"
)

func tokenEvent(seriesID, mint string, kind domain.EventKind, effect, timeOffset float64) TokenEvent {
	return TokenEvent{
		SeriesID:  seriesID,
		TokenMint: mint,
		Event: domain.EventResult{
			Kind:       kind,
			TimeOffset: timeOffset,
			EffectPct:  effect,
		},
	}
}

func TestSimulate_PayoutAndProfit(t *testing.T) {
	events := []TokenEvent{
		tokenEvent("s1", "mint-A", domain.EventTakeProfit, 8.0, 20),
	}

	records, _, err := Simulate(events, 200)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if math.Abs(r.Payout-216.0) > 1e-9 {
		t.Errorf("payout = %v, want 216.0", r.Payout)
	}
	if math.Abs(r.Profit-16.0) > 1e-9 {
		t.Errorf("profit = %v, want 16.0", r.Profit)
	}
}

func TestSimulate_ChronologicalOrderStableTies(t *testing.T) {
	events := []TokenEvent{
		tokenEvent("s1", "mint-A", domain.EventTakeProfit, 10, 30),
		tokenEvent("s2", "mint-B", domain.EventStopLoss, -40, 10),
		tokenEvent("s3", "mint-C", domain.EventNoTrigger, 2, 30),
		tokenEvent("s4", "mint-D", domain.EventTakeProfit, 50, 5),
	}

	records, _, err := Simulate(events, 100)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	want := []string{"s4", "s2", "s1", "s3"} // s1 before s3: tie at t=30 keeps input order
	for i, r := range records {
		if r.SeriesID != want[i] {
			t.Errorf("records[%d] = %s, want %s", i, r.SeriesID, want[i])
		}
	}
}

func TestSimulate_PortfolioSummary(t *testing.T) {
	events := []TokenEvent{
		tokenEvent("s1", "mint-A", domain.EventTakeProfit, 35, 10),
		tokenEvent("s2", "mint-B", domain.EventStopLoss, -60, 20),
		tokenEvent("s3", "mint-C", domain.EventNoTrigger, 5, 30),
		tokenEvent("s4", "mint-D", domain.EventNoTrigger, -10, 40),
	}

	_, summary, err := Simulate(events, 100)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if summary.TotalTrades != 4 {
		t.Errorf("total trades = %d, want 4", summary.TotalTrades)
	}
	if summary.WinRatePct != 50 {
		t.Errorf("win rate = %v, want 50", summary.WinRatePct)
	}
	// mean of 35, -60, 5, -10
	if math.Abs(summary.AvgEffectPct+7.5) > 1e-9 {
		t.Errorf("avg effect = %v, want -7.5", summary.AvgEffectPct)
	}
	// 1 rugged mint (mint-B at -60) out of 4 distinct
	if summary.RugPullRatePct != 25 {
		t.Errorf("rug pull rate = %v, want 25", summary.RugPullRatePct)
	}
	// total profit = 35 - 60 + 5 - 10 = -30; staked 400
	if math.Abs(summary.TotalProfit+30) > 1e-9 {
		t.Errorf("total profit = %v, want -30", summary.TotalProfit)
	}
	if math.Abs(summary.OverallReturnPct+7.5) > 1e-9 {
		t.Errorf("overall return = %v, want -7.5", summary.OverallReturnPct)
	}

	wantCounts := map[string]int{
		domain.TallyTakeProfit:        1,
		domain.TallyStopLoss:          1,
		domain.TallyNoTriggerPositive: 1,
		domain.TallyNoTriggerNegative: 1,
	}
	for k, want := range wantCounts {
		if summary.CountByEventKind[k] != want {
			t.Errorf("count[%s] = %d, want %d", k, summary.CountByEventKind[k], want)
		}
	}
}

func TestSimulate_RugRateCountsDistinctMints(t *testing.T) {
	// mint-A appears twice, both rugged; still one rugged mint of two.
	events := []TokenEvent{
		tokenEvent("s1", "mint-A", domain.EventStopLoss, -70, 10),
		tokenEvent("s2", "mint-A", domain.EventStopLoss, -80, 20),
		tokenEvent("s3", "mint-B", domain.EventTakeProfit, 35, 30),
	}

	_, summary, err := Simulate(events, 100)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if summary.RugPullRatePct != 50 {
		t.Errorf("rug pull rate = %v, want 50 (distinct mints, not records)", summary.RugPullRatePct)
	}
}

func TestSimulate_EmptyInput(t *testing.T) {
	records, summary, err := Simulate(nil, 100)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if summary.TotalTrades != 0 || summary.WinRatePct != 0 || summary.AvgEffectPct != 0 ||
		summary.RugPullRatePct != 0 || summary.OverallReturnPct != 0 {
		t.Errorf("expected all-zero summary, got %+v", summary)
	}
}

func TestSimulate_InvalidStake(t *testing.T) {
	_, _, err := Simulate(nil, 0)
	if !errors.Is(err, domain.ErrInvalidThreshold) {
		t.Errorf("error = %v, want ErrInvalidThreshold", err)
	}
}

func TestSimulate_ZeroEffectNoTriggerCountsPositive(t *testing.T) {
	events := []TokenEvent{
		tokenEvent("s1", "mint-A", domain.EventNoTrigger, 0, 10),
	}

	_, summary, err := Simulate(events, 100)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if summary.CountByEventKind[domain.TallyNoTriggerPositive] != 1 {
		t.Errorf("zero-effect NO_TRIGGER not tallied as positive: %+v", summary.CountByEventKind)
	}
	// Flat trade is not a win.
	if summary.WinRatePct != 0 {
		t.Errorf("win rate = %v, want 0 for flat trade", summary.WinRatePct)
	}
}
