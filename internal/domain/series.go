package domain

// PricePoint is one sample of a token's price history, expressed as an
// offset from the start of the boost cycle.
type PricePoint struct {
	OffsetSeconds float64 // seconds since boost start, never negative
	Price         float64 // sampled price
}

// TokenSeries owns the ordered price history for one (token, boost cycle)
// pair. Immutable once built from normalized input.
type TokenSeries struct {
	SeriesID   string // deterministic hash, see idhash.ComputeSeriesID
	TokenMint  string // token mint address
	BoostID    int    // boost cycle number, 1-based per mint
	StartPrice float64
	Points     []PricePoint // ordered by OffsetSeconds ASC
}

// Validate checks the series is processable: at least one point and a
// positive start price.
func (s *TokenSeries) Validate() error {
	if len(s.Points) == 0 {
		return ErrInvalidSeries
	}
	if s.StartPrice <= 0 {
		return ErrInvalidSeries
	}
	return nil
}

// LastPoint returns the final sample of the series.
// Callers must Validate first.
func (s *TokenSeries) LastPoint() PricePoint {
	return s.Points[len(s.Points)-1]
}

// EffectPct returns the percentage move of price relative to the series
// start price.
func (s *TokenSeries) EffectPct(price float64) float64 {
	return (price - s.StartPrice) / s.StartPrice * 100
}
