package domain

// RugPullSecondsNone is the sentinel stored when no rug pull was flagged.
const RugPullSecondsNone = 9999

// RugSignal is an externally supplied rug-pull flag for one token. The
// current collector never sets it; the labeler consumes it as given so a
// future detector can plug in without changes here.
type RugSignal struct {
	HasRugPull     bool
	RugPullSeconds float64 // seconds since boost start, RugPullSecondsNone when unset
}

// NoRugSignal is the default signal for the present data source.
var NoRugSignal = RugSignal{HasRugPull: false, RugPullSeconds: RugPullSecondsNone}

// TokenSummary aggregates one token's behavior for labeling and reporting.
// Built once per series, consumed exactly once by the labeler.
type TokenSummary struct {
	SeriesID  string
	TokenMint string
	BoostID   int

	// Price behavior
	FirstTrigger     EventKind
	MaxVariationPct  float64
	MinVariationPct  float64
	TimeOfMax        float64 // seconds since boost start, first occurrence
	TimeOfMin        float64
	SecondsToTrigger float64

	// External signals
	HasRugPull     bool
	RugPullSeconds float64

	// Carried token metadata, for filtering and reports
	TokenName       string
	DetectedAt      int64 // Unix ms
	MarketCap       int64
	TotalLiquidity  float64
	BoostAmount     float64
	RugScore        int
	TokenAgeMinutes float64

	// Label is the worth-it outcome, 1 or 0. Terminal once assigned.
	Label int
}
