package clickhouse

import (
	"context"
	"fmt"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// PriceSeriesStore implements storage.PriceSeriesStore using ClickHouse.
type PriceSeriesStore struct {
	conn *Conn
}

// NewPriceSeriesStore creates a new PriceSeriesStore.
func NewPriceSeriesStore(conn *Conn) *PriceSeriesStore {
	return &PriceSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)

// InsertSeries adds all points of one series. Returns ErrDuplicateKey if the
// series was already stored. MergeTree doesn't enforce uniqueness, so the
// check is an explicit count before the batch.
func (s *PriceSeriesStore) InsertSeries(ctx context.Context, seriesID string, points []domain.PricePoint) error {
	if seriesID == "" || len(points) == 0 {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_series (series_id, offset_seconds, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(seriesID, p.OffsetSeconds, p.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySeriesID retrieves all points for a series, ordered by offset ASC.
// Returns ErrNotFound if the series was never stored.
func (s *PriceSeriesStore) GetBySeriesID(ctx context.Context, seriesID string) ([]domain.PricePoint, error) {
	query := `
		SELECT offset_seconds, price
		FROM price_series
		WHERE series_id = ?
		ORDER BY offset_seconds ASC
	`

	rows, err := s.conn.Query(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query by series id: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.OffsetSeconds, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price series row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price series rows: %w", err)
	}

	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}

	return points, nil
}

// exists checks if any points for the series are stored.
func (s *PriceSeriesStore) exists(ctx context.Context, seriesID string) (bool, error) {
	query := `
		SELECT count(*) FROM price_series
		WHERE series_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, seriesID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
