package memory

import (
	"context"
	"sort"
	"sync"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
type PriceSeriesStore struct {
	mu   sync.RWMutex
	data map[string][]domain.PricePoint // keyed by series_id
}

// NewPriceSeriesStore creates a new in-memory price series store.
func NewPriceSeriesStore() *PriceSeriesStore {
	return &PriceSeriesStore{
		data: make(map[string][]domain.PricePoint),
	}
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)

// InsertSeries adds all points of one series. Returns ErrDuplicateKey if the
// series was already stored.
func (s *PriceSeriesStore) InsertSeries(_ context.Context, seriesID string, points []domain.PricePoint) error {
	if seriesID == "" || len(points) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[seriesID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]domain.PricePoint, len(points))
	copy(stored, points)
	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].OffsetSeconds < stored[j].OffsetSeconds
	})

	s.data[seriesID] = stored
	return nil
}

// GetBySeriesID retrieves all points for a series, ordered by offset ASC.
// Returns ErrNotFound if the series was never stored.
func (s *PriceSeriesStore) GetBySeriesID(_ context.Context, seriesID string) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[seriesID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.PricePoint, len(stored))
	copy(result, stored)
	return result, nil
}
