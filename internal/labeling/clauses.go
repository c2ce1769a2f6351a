package labeling

import "dexboost-lab/internal/domain"

// Rule thresholds for the worth-it decision.
const (
	// minPumpPct is the max-variation floor for the pump clauses.
	minPumpPct = 30.0

	// maxDipPct is the min-variation ceiling for the dip-recovery clause.
	maxDipPct = -20.0

	// rugGraceSeconds is how long after the trigger a rug pull must land
	// for a TP trade to still count as worth it.
	rugGraceSeconds = 30.0
)

// Clause is one named predicate of the worth-it rule. Clauses are evaluated
// independently and ORed; keeping them addressable lets each be tested and
// reported on its own.
type Clause struct {
	Name string
	Hold func(s *domain.TokenSummary) bool
}

// DefaultClauses returns the worth-it rule set:
//
//  1. worth-tp-clean: first trigger was TP and no rug pull was flagged.
//  2. worth-tp-rug-late: first trigger was TP and the flagged rug pull
//     landed more than rugGraceSeconds after the trigger.
//  3. worth-pump-first: the series pumped at least minPumpPct and peaked
//     strictly before its low.
//  4. worth-dip-recovery: the series dipped below maxDipPct strictly before
//     pumping at least minPumpPct.
//
// Clauses 3 and 4 use strict time inequalities: when the max and min land
// at the same offset, neither fires.
func DefaultClauses() []Clause {
	return []Clause{
		{
			Name: "worth-tp-clean",
			Hold: func(s *domain.TokenSummary) bool {
				return s.FirstTrigger == domain.EventTakeProfit && !s.HasRugPull
			},
		},
		{
			Name: "worth-tp-rug-late",
			Hold: func(s *domain.TokenSummary) bool {
				return s.FirstTrigger == domain.EventTakeProfit &&
					s.HasRugPull &&
					s.RugPullSeconds > s.SecondsToTrigger+rugGraceSeconds
			},
		},
		{
			Name: "worth-pump-first",
			Hold: func(s *domain.TokenSummary) bool {
				return s.MaxVariationPct >= minPumpPct && s.TimeOfMax < s.TimeOfMin
			},
		},
		{
			Name: "worth-dip-recovery",
			Hold: func(s *domain.TokenSummary) bool {
				return s.MaxVariationPct >= minPumpPct &&
					s.MinVariationPct < maxDipPct &&
					s.TimeOfMin < s.TimeOfMax
			},
		},
	}
}
