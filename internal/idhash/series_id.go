package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSeriesID computes a deterministic series id using SHA256.
// Formula: SHA256(token_mint|boost_id)
// Returns hex-encoded hash (64 characters).
func ComputeSeriesID(tokenMint string, boostID int) string {
	data := fmt.Sprintf("%s|%d", tokenMint, boostID)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTradeID computes a deterministic id for a simulation record.
// Formula: SHA256(series_id|event_kind|time_of_event_ms)
func ComputeTradeID(seriesID string, eventKind string, timeOfEventMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", seriesID, eventKind, timeOfEventMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
