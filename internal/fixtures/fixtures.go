// Package fixtures populates stores with demonstration data so the
// pipeline can run end-to-end without a live collector database.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// baseDetectedAt anchors all fixture boosts: 2024-01-01 00:00:00 UTC.
const baseDetectedAt = int64(1704067200000)

// LoadTokenRecords inserts a small batch of boosted tokens covering the
// interesting outcomes: a clean take profit, a stop loss, a rug-shaped
// crash, a flat no-trigger, a repeat boost of the same mint and one
// record with a corrupt payload.
func LoadTokenRecords(ctx context.Context, store storage.TokenRecordStore) error {
	records := []*domain.TokenRecord{
		{
			TokenMint:        "So11111111111111111111111111111111111111112",
			TokenName:        "Runner",
			PubKey:           "pool_runner",
			DetectedAt:       baseDetectedAt,
			CreatedAt:        baseDetectedAt - 30*60*1000,
			MarketCap:        250_000,
			TotalLiquidity:   48_000,
			BoostAmount:      500,
			TotalLPProviders: 12,
			RugScore:         120,
			TokenAgeMs:       30 * 60 * 1000,
			IsLP:             true,
			PriceHistory:     makeHistory(baseDetectedAt, 1.0, 1.02, 1.06, 1.15, 1.32, 1.40, 1.28),
		},
		{
			TokenMint:        "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			TokenName:        "Bleeder",
			PubKey:           "pool_bleeder",
			DetectedAt:       baseDetectedAt + 60_000,
			CreatedAt:        baseDetectedAt - 2*60*60*1000,
			MarketCap:        90_000,
			TotalLiquidity:   12_000,
			BoostAmount:      250,
			TotalLPProviders: 4,
			RugScore:         610,
			TokenAgeMs:       2 * 60 * 60 * 1000,
			IsLP:             true,
			PriceHistory:     makeHistory(baseDetectedAt+60_000, 1.0, 0.92, 0.81, 0.64, 0.40, 0.22),
		},
		{
			TokenMint:        "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
			TokenName:        "Rugged",
			PubKey:           "pool_rugged",
			DetectedAt:       baseDetectedAt + 120_000,
			CreatedAt:        baseDetectedAt + 110_000,
			MarketCap:        40_000,
			TotalLiquidity:   3_000,
			BoostAmount:      1000,
			TotalLPProviders: 1,
			RugScore:         940,
			TokenAgeMs:       10_000,
			IsPump:           true,
			PriceHistory:     makeHistory(baseDetectedAt+120_000, 1.0, 1.40, 0.05, 0.01, 0.01),
		},
		{
			TokenMint:        "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
			TokenName:        "Sleeper",
			PubKey:           "pool_sleeper",
			DetectedAt:       baseDetectedAt + 180_000,
			CreatedAt:        baseDetectedAt - 24*60*60*1000,
			MarketCap:        1_200_000,
			TotalLiquidity:   300_000,
			BoostAmount:      100,
			TotalLPProviders: 85,
			RugScore:         40,
			TokenAgeMs:       24 * 60 * 60 * 1000,
			IsLP:             true,
			PriceHistory:     makeHistory(baseDetectedAt+180_000, 1.0, 1.01, 0.99, 1.02, 1.00, 0.98),
		},
		{
			// Second boost cycle of the runner, later the same day.
			TokenMint:        "So11111111111111111111111111111111111111112",
			TokenName:        "Runner",
			PubKey:           "pool_runner",
			DetectedAt:       baseDetectedAt + 6*60*60*1000,
			CreatedAt:        baseDetectedAt - 30*60*1000,
			MarketCap:        310_000,
			TotalLiquidity:   52_000,
			BoostAmount:      800,
			TotalLPProviders: 14,
			RugScore:         115,
			TokenAgeMs:       int64(6.5 * 60 * 60 * 1000),
			IsLP:             true,
			PriceHistory:     makeHistory(baseDetectedAt+6*60*60*1000, 1.0, 0.97, 0.93, 0.88, 0.74, 0.69),
		},
		{
			TokenMint:        "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs",
			TokenName:        "Corrupt",
			PubKey:           "pool_corrupt",
			DetectedAt:       baseDetectedAt + 240_000,
			CreatedAt:        baseDetectedAt,
			MarketCap:        15_000,
			TotalLiquidity:   500,
			BoostAmount:      50,
			TotalLPProviders: 2,
			RugScore:         800,
			TokenAgeMs:       240_000,
			PriceHistory:     "nan",
		},
	}

	for _, r := range records {
		if err := store.Insert(ctx, r); err != nil {
			return fmt.Errorf("insert fixture %s: %w", r.TokenMint, err)
		}
	}
	return nil
}

// makeHistory renders prices sampled every 30 seconds from start into the
// collector's escaped-JSON payload format.
func makeHistory(startMs int64, prices ...float64) string {
	out := `"[`
	for i, p := range prices {
		if i > 0 {
			out += ","
		}
		ts := time.UnixMilli(startMs + int64(i)*30_000).UTC().Format(time.RFC3339)
		out += fmt.Sprintf(`{\"time\": \"%s\", \"price\": %g}`, ts, p)
	}
	return out + `]"`
}
