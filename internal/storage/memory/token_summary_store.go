package memory

import (
	"context"
	"sort"
	"sync"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// TokenSummaryStore is an in-memory implementation of storage.TokenSummaryStore.
type TokenSummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenSummary // keyed by series_id
}

// NewTokenSummaryStore creates a new in-memory token summary store.
func NewTokenSummaryStore() *TokenSummaryStore {
	return &TokenSummaryStore{
		data: make(map[string]*domain.TokenSummary),
	}
}

var _ storage.TokenSummaryStore = (*TokenSummaryStore)(nil)

// Insert adds a new summary. Returns ErrDuplicateKey if series_id exists.
func (s *TokenSummaryStore) Insert(_ context.Context, sum *domain.TokenSummary) error {
	if sum == nil || sum.SeriesID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sum.SeriesID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *sum
	s.data[sum.SeriesID] = &copy
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *TokenSummaryStore) InsertBulk(_ context.Context, summaries []*domain.TokenSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(summaries))
	for _, sum := range summaries {
		if sum == nil || sum.SeriesID == "" {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[sum.SeriesID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[sum.SeriesID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[sum.SeriesID] = struct{}{}
	}

	for _, sum := range summaries {
		copy := *sum
		s.data[sum.SeriesID] = &copy
	}

	return nil
}

// GetBySeriesID retrieves a summary by its series ID. Returns ErrNotFound if not exists.
func (s *TokenSummaryStore) GetBySeriesID(_ context.Context, seriesID string) (*domain.TokenSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, exists := s.data[seriesID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *sum
	return &copy, nil
}

// GetByMint retrieves all summaries for a mint, ordered by boost_id ASC.
func (s *TokenSummaryStore) GetByMint(_ context.Context, mint string) ([]*domain.TokenSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenSummary
	for _, sum := range s.data {
		if sum.TokenMint == mint {
			copy := *sum
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].BoostID < result[j].BoostID
	})

	return result, nil
}

// GetAll retrieves all summaries, ordered by detected_at_ms ASC.
func (s *TokenSummaryStore) GetAll(_ context.Context) ([]*domain.TokenSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TokenSummary, 0, len(s.data))
	for _, sum := range s.data {
		copy := *sum
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DetectedAt != result[j].DetectedAt {
			return result[i].DetectedAt < result[j].DetectedAt
		}
		return result[i].SeriesID < result[j].SeriesID
	})

	return result, nil
}
