package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// TokenRecordStore implements storage.TokenRecordStore using PostgreSQL.
type TokenRecordStore struct {
	pool *Pool
}

// NewTokenRecordStore creates a new TokenRecordStore.
func NewTokenRecordStore(pool *Pool) *TokenRecordStore {
	return &TokenRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenRecordStore = (*TokenRecordStore)(nil)

const tokenRecordColumns = `
	token_mint, token_name, pub_key, detected_at_ms, created_at_ms,
	market_cap, total_liquidity, boost_amount, total_lp_providers,
	rug_score, token_age_ms, is_lp, is_pump, price_history,
	boost_id, adjusted_boost_amount
`

const insertTokenRecordQuery = `
	INSERT INTO token_records (
		token_mint, token_name, pub_key, detected_at_ms, created_at_ms,
		market_cap, total_liquidity, boost_amount, total_lp_providers,
		rug_score, token_age_ms, is_lp, is_pump, price_history,
		boost_id, adjusted_boost_amount
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12, $13, $14,
		$15, $16
	)
`

func tokenRecordArgs(r *domain.TokenRecord) []any {
	return []any{
		r.TokenMint, r.TokenName, r.PubKey, r.DetectedAt, r.CreatedAt,
		r.MarketCap, r.TotalLiquidity, r.BoostAmount, r.TotalLPProviders,
		r.RugScore, r.TokenAgeMs, r.IsLP, r.IsPump, r.PriceHistory,
		r.BoostID, r.AdjustedBoostAmount,
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if (token_mint, detected_at_ms) exists.
func (s *TokenRecordStore) Insert(ctx context.Context, r *domain.TokenRecord) error {
	_, err := s.pool.Exec(ctx, insertTokenRecordQuery, tokenRecordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *TokenRecordStore) InsertBulk(ctx context.Context, records []*domain.TokenRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, insertTokenRecordQuery, tokenRecordArgs(r)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert token record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByMint retrieves all records for a mint, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetByMint(ctx context.Context, mint string) ([]*domain.TokenRecord, error) {
	query := `
		SELECT ` + tokenRecordColumns + `
		FROM token_records
		WHERE token_mint = $1
		ORDER BY detected_at_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get token records by mint: %w", err)
	}
	defer rows.Close()

	return scanTokenRecords(rows)
}

// GetDetectedSince retrieves records with detected_at_ms >= sinceMs, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetDetectedSince(ctx context.Context, sinceMs int64) ([]*domain.TokenRecord, error) {
	query := `
		SELECT ` + tokenRecordColumns + `
		FROM token_records
		WHERE detected_at_ms >= $1
		ORDER BY detected_at_ms ASC, token_mint ASC
	`

	rows, err := s.pool.Query(ctx, query, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("get token records since: %w", err)
	}
	defer rows.Close()

	return scanTokenRecords(rows)
}

// GetAll retrieves all records, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetAll(ctx context.Context) ([]*domain.TokenRecord, error) {
	query := `
		SELECT ` + tokenRecordColumns + `
		FROM token_records
		ORDER BY detected_at_ms ASC, token_mint ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all token records: %w", err)
	}
	defer rows.Close()

	return scanTokenRecords(rows)
}

// scanTokenRecords scans multiple rows into a slice of TokenRecord.
func scanTokenRecords(rows pgx.Rows) ([]*domain.TokenRecord, error) {
	var records []*domain.TokenRecord

	for rows.Next() {
		var r domain.TokenRecord

		err := rows.Scan(
			&r.TokenMint, &r.TokenName, &r.PubKey, &r.DetectedAt, &r.CreatedAt,
			&r.MarketCap, &r.TotalLiquidity, &r.BoostAmount, &r.TotalLPProviders,
			&r.RugScore, &r.TokenAgeMs, &r.IsLP, &r.IsPump, &r.PriceHistory,
			&r.BoostID, &r.AdjustedBoostAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan token record row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token record rows: %w", err)
	}

	return records, nil
}
