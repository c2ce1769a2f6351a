package memory

import (
	"context"
	"errors"
	"testing"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

func TestPriceSeriesStore_InsertAndGet(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	points := []domain.PricePoint{
		{OffsetSeconds: 0, Price: 100},
		{OffsetSeconds: 10, Price: 105},
		{OffsetSeconds: 20, Price: 95},
	}

	if err := store.InsertSeries(ctx, "series1", points); err != nil {
		t.Fatalf("InsertSeries failed: %v", err)
	}

	got, err := store.GetBySeriesID(ctx, "series1")
	if err != nil {
		t.Fatalf("GetBySeriesID failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(got))
	}
	if got[1].Price != 105 {
		t.Errorf("Price mismatch: got %f", got[1].Price)
	}
}

func TestPriceSeriesStore_OrderedByOffset(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	points := []domain.PricePoint{
		{OffsetSeconds: 20, Price: 95},
		{OffsetSeconds: 0, Price: 100},
		{OffsetSeconds: 10, Price: 105},
	}

	if err := store.InsertSeries(ctx, "series1", points); err != nil {
		t.Fatalf("InsertSeries failed: %v", err)
	}

	got, err := store.GetBySeriesID(ctx, "series1")
	if err != nil {
		t.Fatalf("GetBySeriesID failed: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].OffsetSeconds < got[i-1].OffsetSeconds {
			t.Fatalf("Points not ordered by offset: %v", got)
		}
	}
}

func TestPriceSeriesStore_DuplicateSeries(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	points := []domain.PricePoint{{OffsetSeconds: 0, Price: 100}}

	if err := store.InsertSeries(ctx, "series1", points); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertSeries(ctx, "series1", points)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPriceSeriesStore_NotFound(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	_, err := store.GetBySeriesID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPriceSeriesStore_EmptyPointsRejected(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	err := store.InsertSeries(ctx, "series1", nil)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
