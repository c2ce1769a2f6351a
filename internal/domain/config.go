package domain

import "fmt"

// Thresholds holds the TP/SL boundaries as multiplicative ratios applied to
// a series' start price. The percent flavor used by the labeling path is
// converted on construction; internally there is one representation.
type Thresholds struct {
	TPRatio float64 // > 1.0, e.g. 1.35 for +35%
	SLRatio float64 // in (0, 1), e.g. 0.60 for -40%
}

// ThresholdsFromPercent builds Thresholds from percentage deltas, e.g.
// (35, -40) for +35% take profit and -40% stop loss.
func ThresholdsFromPercent(tpPct, slPct float64) Thresholds {
	return Thresholds{
		TPRatio: 1 + tpPct/100,
		SLRatio: 1 + slPct/100,
	}
}

// Validate checks threshold sanity. Called once at configuration time,
// before any per-token processing.
func (t Thresholds) Validate() error {
	if t.TPRatio <= 1.0 {
		return fmt.Errorf("%w: tp ratio %v must be > 1.0", ErrInvalidThreshold, t.TPRatio)
	}
	if t.SLRatio <= 0 || t.SLRatio >= 1.0 {
		return fmt.Errorf("%w: sl ratio %v must be in (0, 1)", ErrInvalidThreshold, t.SLRatio)
	}
	return nil
}

// AnalysisConfig carries every externally supplied parameter of a run.
// Entry points take it explicitly; nothing reads ambient files.
type AnalysisConfig struct {
	Thresholds  Thresholds
	MinDistance int     // extrema minimum index separation
	Stake       float64 // fixed stake per simulated trade
}

// Validate fails fast on any invalid parameter so that configuration errors
// surface before per-token work starts.
func (c AnalysisConfig) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.MinDistance <= 0 {
		return fmt.Errorf("%w: min distance %d must be positive", ErrInvalidThreshold, c.MinDistance)
	}
	if c.Stake <= 0 {
		return fmt.Errorf("%w: stake %v must be positive", ErrInvalidThreshold, c.Stake)
	}
	return nil
}
