package domain

// TokenRecord is one raw row from the boost collector: token metadata plus
// the unparsed price-history payload. Normalization turns it into a
// TokenSeries.
type TokenRecord struct {
	TokenMint  string
	TokenName  string
	PubKey     string
	DetectedAt int64 // Unix ms, boost detection time
	CreatedAt  int64 // Unix ms, token creation time

	MarketCap        int64
	TotalLiquidity   float64
	BoostAmount      float64
	TotalLPProviders int
	RugScore         int
	TokenAgeMs       int64 // raw age in milliseconds
	IsLP             bool
	IsPump           bool

	// PriceHistory is the raw JSON payload as stored by the collector,
	// possibly wrapped in escaped quotes.
	PriceHistory string

	// BoostID is assigned by normalization: rank of DetectedAt per mint.
	BoostID int

	// AdjustedBoostAmount is the boost delta vs the previous cycle,
	// falling back to BoostAmount for the first cycle.
	AdjustedBoostAmount float64
}

// TokenAgeMinutes converts the raw millisecond age to minutes.
func (r *TokenRecord) TokenAgeMinutes() float64 {
	return float64(r.TokenAgeMs) / 60000
}
