package domain

import "errors"

// Analysis errors.
var (
	// ErrInvalidSeries is returned for an empty series or non-positive
	// start price. Fatal for that token only; callers record the failure
	// and continue with the batch.
	ErrInvalidSeries = errors.New("invalid series: empty or non-positive start price")

	// ErrInvalidThreshold is returned for bad run configuration
	// (thresholds, min distance, stake). Fatal for the whole run.
	ErrInvalidThreshold = errors.New("invalid configuration")
)
