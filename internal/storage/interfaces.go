package storage

import (
	"context"

	"dexboost-lab/internal/domain"
)

// TokenRecordStore provides access to token_records storage. Records are
// keyed by (token_mint, detected_at_ms): the same mint may be boosted more
// than once, each boost is a separate record.
type TokenRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if (token_mint, detected_at_ms) exists.
	Insert(ctx context.Context, r *domain.TokenRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.TokenRecord) error

	// GetByMint retrieves all records for a mint, ordered by detected_at_ms ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.TokenRecord, error)

	// GetDetectedSince retrieves records with detected_at_ms >= sinceMs,
	// ordered by detected_at_ms ASC.
	GetDetectedSince(ctx context.Context, sinceMs int64) ([]*domain.TokenRecord, error)

	// GetAll retrieves all records, ordered by detected_at_ms ASC.
	GetAll(ctx context.Context) ([]*domain.TokenRecord, error)
}

// PriceSeriesStore provides access to normalized price_series storage.
// Points for one series are written in a single batch.
type PriceSeriesStore interface {
	// InsertSeries adds all points of one series. Returns ErrDuplicateKey
	// if the series was already stored.
	InsertSeries(ctx context.Context, seriesID string, points []domain.PricePoint) error

	// GetBySeriesID retrieves all points for a series, ordered by offset ASC.
	// Returns ErrNotFound if the series was never stored.
	GetBySeriesID(ctx context.Context, seriesID string) ([]domain.PricePoint, error)
}

// TokenSummaryStore provides access to token_summaries storage.
type TokenSummaryStore interface {
	// Insert adds a new summary. Returns ErrDuplicateKey if series_id exists.
	Insert(ctx context.Context, s *domain.TokenSummary) error

	// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, summaries []*domain.TokenSummary) error

	// GetBySeriesID retrieves a summary by its series ID. Returns ErrNotFound if not exists.
	GetBySeriesID(ctx context.Context, seriesID string) (*domain.TokenSummary, error)

	// GetByMint retrieves all summaries for a mint, ordered by boost_id ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.TokenSummary, error)

	// GetAll retrieves all summaries, ordered by detected_at_ms ASC.
	GetAll(ctx context.Context) ([]*domain.TokenSummary, error)
}

// SimulationRecordStore provides access to simulation_records storage.
type SimulationRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, r *domain.SimulationRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.SimulationRecord) error

	// GetByID retrieves a record by its trade ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.SimulationRecord, error)

	// GetAll retrieves all records, ordered by time_of_event ASC.
	GetAll(ctx context.Context) ([]*domain.SimulationRecord, error)
}
