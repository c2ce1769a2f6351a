package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// TokenSummaryStore implements storage.TokenSummaryStore using PostgreSQL.
type TokenSummaryStore struct {
	pool *Pool
}

// NewTokenSummaryStore creates a new TokenSummaryStore.
func NewTokenSummaryStore(pool *Pool) *TokenSummaryStore {
	return &TokenSummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenSummaryStore = (*TokenSummaryStore)(nil)

const tokenSummaryColumns = `
	series_id, token_mint, boost_id,
	first_trigger, max_variation_pct, min_variation_pct,
	time_of_max, time_of_min, seconds_to_trigger,
	has_rug_pull, rug_pull_seconds,
	token_name, detected_at_ms, market_cap, total_liquidity,
	boost_amount, rug_score, token_age_minutes, label
`

const insertTokenSummaryQuery = `
	INSERT INTO token_summaries (
		series_id, token_mint, boost_id,
		first_trigger, max_variation_pct, min_variation_pct,
		time_of_max, time_of_min, seconds_to_trigger,
		has_rug_pull, rug_pull_seconds,
		token_name, detected_at_ms, market_cap, total_liquidity,
		boost_amount, rug_score, token_age_minutes, label
	) VALUES (
		$1, $2, $3,
		$4, $5, $6,
		$7, $8, $9,
		$10, $11,
		$12, $13, $14, $15,
		$16, $17, $18, $19
	)
`

func tokenSummaryArgs(s *domain.TokenSummary) []any {
	return []any{
		s.SeriesID, s.TokenMint, s.BoostID,
		string(s.FirstTrigger), s.MaxVariationPct, s.MinVariationPct,
		s.TimeOfMax, s.TimeOfMin, s.SecondsToTrigger,
		s.HasRugPull, s.RugPullSeconds,
		s.TokenName, s.DetectedAt, s.MarketCap, s.TotalLiquidity,
		s.BoostAmount, s.RugScore, s.TokenAgeMinutes, s.Label,
	}
}

// Insert adds a new summary. Returns ErrDuplicateKey if series_id exists.
func (s *TokenSummaryStore) Insert(ctx context.Context, sum *domain.TokenSummary) error {
	_, err := s.pool.Exec(ctx, insertTokenSummaryQuery, tokenSummaryArgs(sum)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token summary: %w", err)
	}
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *TokenSummaryStore) InsertBulk(ctx context.Context, summaries []*domain.TokenSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sum := range summaries {
		_, err := tx.Exec(ctx, insertTokenSummaryQuery, tokenSummaryArgs(sum)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert token summary in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySeriesID retrieves a summary by its series ID. Returns ErrNotFound if not exists.
func (s *TokenSummaryStore) GetBySeriesID(ctx context.Context, seriesID string) (*domain.TokenSummary, error) {
	query := `
		SELECT ` + tokenSummaryColumns + `
		FROM token_summaries
		WHERE series_id = $1
	`

	row := s.pool.QueryRow(ctx, query, seriesID)
	sum, err := scanTokenSummary(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token summary by series id: %w", err)
	}
	return sum, nil
}

// GetByMint retrieves all summaries for a mint, ordered by boost_id ASC.
func (s *TokenSummaryStore) GetByMint(ctx context.Context, mint string) ([]*domain.TokenSummary, error) {
	query := `
		SELECT ` + tokenSummaryColumns + `
		FROM token_summaries
		WHERE token_mint = $1
		ORDER BY boost_id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get token summaries by mint: %w", err)
	}
	defer rows.Close()

	return scanTokenSummaries(rows)
}

// GetAll retrieves all summaries, ordered by detected_at_ms ASC.
func (s *TokenSummaryStore) GetAll(ctx context.Context) ([]*domain.TokenSummary, error) {
	query := `
		SELECT ` + tokenSummaryColumns + `
		FROM token_summaries
		ORDER BY detected_at_ms ASC, series_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all token summaries: %w", err)
	}
	defer rows.Close()

	return scanTokenSummaries(rows)
}

// scanTokenSummary scans a single row into a TokenSummary.
func scanTokenSummary(row pgx.Row) (*domain.TokenSummary, error) {
	var sum domain.TokenSummary
	var firstTrigger string

	err := row.Scan(
		&sum.SeriesID, &sum.TokenMint, &sum.BoostID,
		&firstTrigger, &sum.MaxVariationPct, &sum.MinVariationPct,
		&sum.TimeOfMax, &sum.TimeOfMin, &sum.SecondsToTrigger,
		&sum.HasRugPull, &sum.RugPullSeconds,
		&sum.TokenName, &sum.DetectedAt, &sum.MarketCap, &sum.TotalLiquidity,
		&sum.BoostAmount, &sum.RugScore, &sum.TokenAgeMinutes, &sum.Label,
	)
	if err != nil {
		return nil, err
	}

	sum.FirstTrigger = domain.EventKind(firstTrigger)
	return &sum, nil
}

// scanTokenSummaries scans multiple rows into a slice of TokenSummary.
func scanTokenSummaries(rows pgx.Rows) ([]*domain.TokenSummary, error) {
	var summaries []*domain.TokenSummary

	for rows.Next() {
		var sum domain.TokenSummary
		var firstTrigger string

		err := rows.Scan(
			&sum.SeriesID, &sum.TokenMint, &sum.BoostID,
			&firstTrigger, &sum.MaxVariationPct, &sum.MinVariationPct,
			&sum.TimeOfMax, &sum.TimeOfMin, &sum.SecondsToTrigger,
			&sum.HasRugPull, &sum.RugPullSeconds,
			&sum.TokenName, &sum.DetectedAt, &sum.MarketCap, &sum.TotalLiquidity,
			&sum.BoostAmount, &sum.RugScore, &sum.TokenAgeMinutes, &sum.Label,
		)
		if err != nil {
			return nil, fmt.Errorf("scan token summary row: %w", err)
		}

		sum.FirstTrigger = domain.EventKind(firstTrigger)
		summaries = append(summaries, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token summary rows: %w", err)
	}

	return summaries, nil
}
