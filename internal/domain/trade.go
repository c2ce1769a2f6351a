package domain

// SimulationRecord is one fixed-stake simulated trade for a token.
type SimulationRecord struct {
	TradeID     string // deterministic, derived from series id, kind and event time
	SeriesID    string
	TokenMint   string
	EventKind   EventKind
	EffectPct   float64
	Stake       float64
	Payout      float64 // stake * (1 + effect/100)
	Profit      float64 // payout - stake
	TimeOfEvent float64 // seconds since boost start
}

// Tally keys for PortfolioSummary.CountByEventKind. NO_TRIGGER is split by
// the sign of the effect; the two tallies are distinct on purpose.
const (
	TallyTakeProfit        = "TP"
	TallyStopLoss          = "SL"
	TallyNoTriggerPositive = "NO_TRIGGER_POS"
	TallyNoTriggerNegative = "NO_TRIGGER_NEG"
)

// PortfolioSummary holds portfolio-level statistics over a full simulation
// run. Zero records yields the zero value, not an error.
type PortfolioSummary struct {
	TotalTrades      int
	WinRatePct       float64 // % of records with profit > 0
	AvgEffectPct     float64
	RugPullRatePct   float64 // % of distinct mints with any effect <= -50
	TotalProfit      float64
	OverallReturnPct float64 // total profit over total staked
	CountByEventKind map[string]int
}
