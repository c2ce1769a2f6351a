package domain

// EventKind identifies which threshold (if any) a series crossed first.
type EventKind string

// Event kinds.
const (
	EventTakeProfit EventKind = "TP"
	EventStopLoss   EventKind = "SL"
	EventNoTrigger  EventKind = "NO_TRIGGER"
)

// EventResult is the single first-triggered event for one series evaluation.
// Computed once, immutable, consumed by both the summary builder and the
// trade simulator.
type EventResult struct {
	Kind       EventKind
	TimeOffset float64 // seconds since boost start
	Price      float64 // price at the event sample
	EffectPct  float64 // percentage move vs start price
}
