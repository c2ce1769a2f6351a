package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

func TestPriceSeriesStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceSeriesStore(conn)

	points := []domain.PricePoint{
		{OffsetSeconds: 0, Price: 1.5},
		{OffsetSeconds: 10, Price: 1.62},
		{OffsetSeconds: 30, Price: 1.44},
	}

	require.NoError(t, store.InsertSeries(ctx, "series1", points))

	got, err := store.GetBySeriesID(ctx, "series1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1.62, got[1].Price)
}

func TestPriceSeriesStore_OrderedByOffset(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceSeriesStore(conn)

	points := []domain.PricePoint{
		{OffsetSeconds: 30, Price: 1.44},
		{OffsetSeconds: 0, Price: 1.5},
		{OffsetSeconds: 10, Price: 1.62},
	}

	require.NoError(t, store.InsertSeries(ctx, "series1", points))

	got, err := store.GetBySeriesID(ctx, "series1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].OffsetSeconds, got[i].OffsetSeconds)
	}
}

func TestPriceSeriesStore_DuplicateSeries(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceSeriesStore(conn)

	points := []domain.PricePoint{{OffsetSeconds: 0, Price: 1.5}}

	require.NoError(t, store.InsertSeries(ctx, "series1", points))

	err := store.InsertSeries(ctx, "series1", points)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPriceSeriesStore_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceSeriesStore(conn)

	_, err := store.GetBySeriesID(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
