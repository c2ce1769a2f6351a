// Package event finds the first take-profit or stop-loss crossing in a
// token's price series.
package event

import (
	"dexboost-lab/internal/domain"
)

// Detect scans the series in time order and resolves which threshold (if
// any) is crossed first.
//
// A single linear pass records the earliest index whose price reaches the
// TP boundary (start * TPRatio) and the earliest index whose price reaches
// the SL boundary (start * SLRatio). If both exist, the earlier time wins;
// on an exact tie TP wins. The precedence is arbitrary but is a documented
// contract: downstream labels and statistics depend on it.
//
// If neither boundary is crossed the result is NO_TRIGGER with the time and
// price of the last sample, and the effect computed against that last price.
//
// Returns domain.ErrInvalidSeries for an empty series or non-positive start
// price. The input series is never mutated.
func Detect(series *domain.TokenSeries, thresholds domain.Thresholds) (domain.EventResult, error) {
	if err := series.Validate(); err != nil {
		return domain.EventResult{}, err
	}

	tpBoundary := series.StartPrice * thresholds.TPRatio
	slBoundary := series.StartPrice * thresholds.SLRatio

	tpIdx := -1
	slIdx := -1
	for i, p := range series.Points {
		if tpIdx < 0 && p.Price >= tpBoundary {
			tpIdx = i
		}
		if slIdx < 0 && p.Price <= slBoundary {
			slIdx = i
		}
		if tpIdx >= 0 && slIdx >= 0 {
			break
		}
	}

	switch {
	case tpIdx >= 0 && slIdx >= 0:
		// Earlier time wins; TP wins exact ties.
		if series.Points[slIdx].OffsetSeconds < series.Points[tpIdx].OffsetSeconds {
			return resultAt(series, slIdx, domain.EventStopLoss), nil
		}
		return resultAt(series, tpIdx, domain.EventTakeProfit), nil
	case tpIdx >= 0:
		return resultAt(series, tpIdx, domain.EventTakeProfit), nil
	case slIdx >= 0:
		return resultAt(series, slIdx, domain.EventStopLoss), nil
	}

	last := series.LastPoint()
	return domain.EventResult{
		Kind:       domain.EventNoTrigger,
		TimeOffset: last.OffsetSeconds,
		Price:      last.Price,
		EffectPct:  series.EffectPct(last.Price),
	}, nil
}

func resultAt(series *domain.TokenSeries, idx int, kind domain.EventKind) domain.EventResult {
	p := series.Points[idx]
	return domain.EventResult{
		Kind:       kind,
		TimeOffset: p.OffsetSeconds,
		Price:      p.Price,
		EffectPct:  series.EffectPct(p.Price),
	}
}
