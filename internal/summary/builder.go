// Package summary builds per-token aggregates for the labeling path.
package summary

import "dexboost-lab/internal/domain"

// Build computes the labeling-path aggregate for one series: extreme price
// variations with their first-occurrence times, the first trigger and its
// timing, and the externally supplied rug signal passed through untouched.
//
// Returns domain.ErrInvalidSeries when the series is not processable.
func Build(series *domain.TokenSeries, event domain.EventResult, rug domain.RugSignal) (*domain.TokenSummary, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	maxVar := series.EffectPct(series.Points[0].Price)
	minVar := maxVar
	timeOfMax := series.Points[0].OffsetSeconds
	timeOfMin := timeOfMax

	// First occurrence wins on equal variations.
	for _, p := range series.Points[1:] {
		v := series.EffectPct(p.Price)
		if v > maxVar {
			maxVar = v
			timeOfMax = p.OffsetSeconds
		}
		if v < minVar {
			minVar = v
			timeOfMin = p.OffsetSeconds
		}
	}

	return &domain.TokenSummary{
		SeriesID:         series.SeriesID,
		TokenMint:        series.TokenMint,
		BoostID:          series.BoostID,
		FirstTrigger:     event.Kind,
		MaxVariationPct:  maxVar,
		MinVariationPct:  minVar,
		TimeOfMax:        timeOfMax,
		TimeOfMin:        timeOfMin,
		SecondsToTrigger: event.TimeOffset,
		HasRugPull:       rug.HasRugPull,
		RugPullSeconds:   rug.RugPullSeconds,
	}, nil
}

// Enrich copies token metadata from the raw record onto the summary for
// filtering and reporting.
func Enrich(s *domain.TokenSummary, record *domain.TokenRecord) {
	s.TokenName = record.TokenName
	s.DetectedAt = record.DetectedAt
	s.MarketCap = record.MarketCap
	s.TotalLiquidity = record.TotalLiquidity
	s.BoostAmount = record.AdjustedBoostAmount
	s.RugScore = record.RugScore
	s.TokenAgeMinutes = record.TokenAgeMinutes()
}
