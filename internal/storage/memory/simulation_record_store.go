package memory

import (
	"context"
	"sort"
	"sync"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// SimulationRecordStore is an in-memory implementation of storage.SimulationRecordStore.
type SimulationRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationRecord // keyed by trade_id
}

// NewSimulationRecordStore creates a new in-memory simulation record store.
func NewSimulationRecordStore() *SimulationRecordStore {
	return &SimulationRecordStore{
		data: make(map[string]*domain.SimulationRecord),
	}
}

var _ storage.SimulationRecordStore = (*SimulationRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if trade_id exists.
func (s *SimulationRecordStore) Insert(_ context.Context, r *domain.SimulationRecord) error {
	if r == nil || r.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.TradeID] = &copy
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *SimulationRecordStore) InsertBulk(_ context.Context, records []*domain.SimulationRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.TradeID == "" {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[r.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.TradeID] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[r.TradeID] = &copy
	}

	return nil
}

// GetByID retrieves a record by its trade ID. Returns ErrNotFound if not exists.
func (s *SimulationRecordStore) GetByID(_ context.Context, tradeID string) (*domain.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetAll retrieves all records, ordered by time_of_event ASC.
func (s *SimulationRecordStore) GetAll(_ context.Context) ([]*domain.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SimulationRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimeOfEvent != result[j].TimeOfEvent {
			return result[i].TimeOfEvent < result[j].TimeOfEvent
		}
		return result[i].TradeID < result[j].TradeID
	})

	return result, nil
}
