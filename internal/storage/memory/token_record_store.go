package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// TokenRecordStore is an in-memory implementation of storage.TokenRecordStore.
type TokenRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenRecord // keyed by mint|detected_at_ms
}

// NewTokenRecordStore creates a new in-memory token record store.
func NewTokenRecordStore() *TokenRecordStore {
	return &TokenRecordStore{
		data: make(map[string]*domain.TokenRecord),
	}
}

var _ storage.TokenRecordStore = (*TokenRecordStore)(nil)

func recordKey(r *domain.TokenRecord) string {
	return fmt.Sprintf("%s|%d", r.TokenMint, r.DetectedAt)
}

// Insert adds a new record. Returns ErrDuplicateKey if (token_mint, detected_at_ms) exists.
func (s *TokenRecordStore) Insert(_ context.Context, r *domain.TokenRecord) error {
	if r == nil || r.TokenMint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(r)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *TokenRecordStore) InsertBulk(_ context.Context, records []*domain.TokenRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.TokenMint == "" {
			return storage.ErrInvalidInput
		}

		key := recordKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[recordKey(r)] = &copy
	}

	return nil
}

// GetByMint retrieves all records for a mint, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetByMint(_ context.Context, mint string) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenRecord
	for _, r := range s.data {
		if r.TokenMint == mint {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DetectedAt < result[j].DetectedAt
	})

	return result, nil
}

// GetDetectedSince retrieves records with detected_at_ms >= sinceMs, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetDetectedSince(_ context.Context, sinceMs int64) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenRecord
	for _, r := range s.data {
		if r.DetectedAt >= sinceMs {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortRecords(result)
	return result, nil
}

// GetAll retrieves all records, ordered by detected_at_ms ASC.
func (s *TokenRecordStore) GetAll(_ context.Context) ([]*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TokenRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortRecords(result)
	return result, nil
}

func sortRecords(records []*domain.TokenRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].DetectedAt != records[j].DetectedAt {
			return records[i].DetectedAt < records[j].DetectedAt
		}
		return records[i].TokenMint < records[j].TokenMint
	})
}
