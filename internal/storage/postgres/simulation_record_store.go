package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// SimulationRecordStore implements storage.SimulationRecordStore using PostgreSQL.
type SimulationRecordStore struct {
	pool *Pool
}

// NewSimulationRecordStore creates a new SimulationRecordStore.
func NewSimulationRecordStore(pool *Pool) *SimulationRecordStore {
	return &SimulationRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationRecordStore = (*SimulationRecordStore)(nil)

const simulationRecordColumns = `
	trade_id, series_id, token_mint, event_kind,
	effect_pct, stake, payout, profit, time_of_event
`

const insertSimulationRecordQuery = `
	INSERT INTO simulation_records (
		trade_id, series_id, token_mint, event_kind,
		effect_pct, stake, payout, profit, time_of_event
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9
	)
`

func simulationRecordArgs(r *domain.SimulationRecord) []any {
	return []any{
		r.TradeID, r.SeriesID, r.TokenMint, string(r.EventKind),
		r.EffectPct, r.Stake, r.Payout, r.Profit, r.TimeOfEvent,
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if trade_id exists.
func (s *SimulationRecordStore) Insert(ctx context.Context, r *domain.SimulationRecord) error {
	_, err := s.pool.Exec(ctx, insertSimulationRecordQuery, simulationRecordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *SimulationRecordStore) InsertBulk(ctx context.Context, records []*domain.SimulationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, insertSimulationRecordQuery, simulationRecordArgs(r)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert simulation record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its trade ID. Returns ErrNotFound if not exists.
func (s *SimulationRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.SimulationRecord, error) {
	query := `
		SELECT ` + simulationRecordColumns + `
		FROM simulation_records
		WHERE trade_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tradeID)
	r, err := scanSimulationRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation record by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves all records, ordered by time_of_event ASC.
func (s *SimulationRecordStore) GetAll(ctx context.Context) ([]*domain.SimulationRecord, error) {
	query := `
		SELECT ` + simulationRecordColumns + `
		FROM simulation_records
		ORDER BY time_of_event ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all simulation records: %w", err)
	}
	defer rows.Close()

	return scanSimulationRecords(rows)
}

// scanSimulationRecord scans a single row into a SimulationRecord.
func scanSimulationRecord(row pgx.Row) (*domain.SimulationRecord, error) {
	var r domain.SimulationRecord
	var eventKind string

	err := row.Scan(
		&r.TradeID, &r.SeriesID, &r.TokenMint, &eventKind,
		&r.EffectPct, &r.Stake, &r.Payout, &r.Profit, &r.TimeOfEvent,
	)
	if err != nil {
		return nil, err
	}

	r.EventKind = domain.EventKind(eventKind)
	return &r, nil
}

// scanSimulationRecords scans multiple rows into a slice of SimulationRecord.
func scanSimulationRecords(rows pgx.Rows) ([]*domain.SimulationRecord, error) {
	var records []*domain.SimulationRecord

	for rows.Next() {
		var r domain.SimulationRecord
		var eventKind string

		err := rows.Scan(
			&r.TradeID, &r.SeriesID, &r.TokenMint, &eventKind,
			&r.EffectPct, &r.Stake, &r.Payout, &r.Profit, &r.TimeOfEvent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan simulation record row: %w", err)
		}

		r.EventKind = domain.EventKind(eventKind)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation record rows: %w", err)
	}

	return records, nil
}
