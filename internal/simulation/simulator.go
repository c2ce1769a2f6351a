// Package simulation turns per-token event results into a fixed-stake trade
// log and portfolio-level statistics.
package simulation

import (
	"fmt"
	"sort"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/idhash"
)

// rugPullEffectPct marks a token as rug-pulled for the portfolio rate when
// any of its records hit this effect or worse.
const rugPullEffectPct = -50.0

// TokenEvent pairs a resolved event with the series it came from.
type TokenEvent struct {
	SeriesID  string
	TokenMint string
	Event     domain.EventResult
}

// Simulate maps each event to one fixed-stake trade and aggregates the
// portfolio summary over the full record set.
//
// Records are returned in ascending order of event time; ties keep the
// input order, so the output reads as a chronological trade log. Zero
// events yields an empty log and an all-zero summary without error.
//
// Fails fast with domain.ErrInvalidThreshold when stake is not positive.
func Simulate(events []TokenEvent, stake float64) ([]domain.SimulationRecord, domain.PortfolioSummary, error) {
	if stake <= 0 {
		return nil, domain.PortfolioSummary{}, fmt.Errorf("%w: stake %v must be positive", domain.ErrInvalidThreshold, stake)
	}

	records := make([]domain.SimulationRecord, 0, len(events))
	for _, e := range events {
		payout := stake * (1 + e.Event.EffectPct/100)
		records = append(records, domain.SimulationRecord{
			TradeID:     idhash.ComputeTradeID(e.SeriesID, string(e.Event.Kind), int64(e.Event.TimeOffset*1000)),
			SeriesID:    e.SeriesID,
			TokenMint:   e.TokenMint,
			EventKind:   e.Event.Kind,
			EffectPct:   e.Event.EffectPct,
			Stake:       stake,
			Payout:      payout,
			Profit:      payout - stake,
			TimeOfEvent: e.Event.TimeOffset,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TimeOfEvent < records[j].TimeOfEvent
	})

	return records, Summarize(records), nil
}

// Summarize computes the portfolio summary over a record set. All rates
// report zero for an empty set. Works on both fresh and stored records.
func Summarize(records []domain.SimulationRecord) domain.PortfolioSummary {
	summary := domain.PortfolioSummary{
		CountByEventKind: map[string]int{
			domain.TallyTakeProfit:        0,
			domain.TallyStopLoss:          0,
			domain.TallyNoTriggerPositive: 0,
			domain.TallyNoTriggerNegative: 0,
		},
	}

	n := len(records)
	summary.TotalTrades = n
	if n == 0 {
		return summary
	}

	wins := 0
	effectSum := 0.0
	totalStaked := 0.0
	ruggedMints := make(map[string]struct{})
	seenMints := make(map[string]struct{})

	for _, r := range records {
		if r.Profit > 0 {
			wins++
		}
		effectSum += r.EffectPct
		totalStaked += r.Stake
		summary.TotalProfit += r.Profit

		seenMints[r.TokenMint] = struct{}{}
		if r.EffectPct <= rugPullEffectPct {
			ruggedMints[r.TokenMint] = struct{}{}
		}

		switch r.EventKind {
		case domain.EventTakeProfit:
			summary.CountByEventKind[domain.TallyTakeProfit]++
		case domain.EventStopLoss:
			summary.CountByEventKind[domain.TallyStopLoss]++
		case domain.EventNoTrigger:
			if r.EffectPct >= 0 {
				summary.CountByEventKind[domain.TallyNoTriggerPositive]++
			} else {
				summary.CountByEventKind[domain.TallyNoTriggerNegative]++
			}
		}
	}

	summary.WinRatePct = float64(wins) / float64(n) * 100
	summary.AvgEffectPct = effectSum / float64(n)
	summary.RugPullRatePct = float64(len(ruggedMints)) / float64(len(seenMints)) * 100
	if totalStaked > 0 {
		summary.OverallReturnPct = summary.TotalProfit / totalStaked * 100
	}

	return summary
}
