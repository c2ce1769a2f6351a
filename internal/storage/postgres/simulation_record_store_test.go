package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

func createTestSimulationRecord(tradeID, seriesID string, timeOfEvent float64) *domain.SimulationRecord {
	return &domain.SimulationRecord{
		TradeID:     tradeID,
		SeriesID:    seriesID,
		TokenMint:   "mint-" + seriesID,
		EventKind:   domain.EventTakeProfit,
		EffectPct:   8.0,
		Stake:       200,
		Payout:      216,
		Profit:      16,
		TimeOfEvent: timeOfEvent,
	}
}

func TestSimulationRecordStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSimulationRecordStore(pool)

	record := createTestSimulationRecord("trade1", "series1", 20)
	require.NoError(t, store.Insert(ctx, record))

	got, err := store.GetByID(ctx, "trade1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventTakeProfit, got.EventKind)
	assert.Equal(t, 216.0, got.Payout)
	assert.Equal(t, 16.0, got.Profit)
}

func TestSimulationRecordStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSimulationRecordStore(pool)

	record := createTestSimulationRecord("trade1", "series1", 20)
	require.NoError(t, store.Insert(ctx, record))

	err := store.Insert(ctx, record)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSimulationRecordStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSimulationRecordStore(pool)

	_, err := store.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSimulationRecordStore_GetAllChronological(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSimulationRecordStore(pool)

	records := []*domain.SimulationRecord{
		createTestSimulationRecord("t3", "s3", 30),
		createTestSimulationRecord("t1", "s1", 10),
		createTestSimulationRecord("t2", "s2", 20),
	}
	require.NoError(t, store.InsertBulk(ctx, records))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "t1", got[0].TradeID)
	assert.Equal(t, "t2", got[1].TradeID)
	assert.Equal(t, "t3", got[2].TradeID)
}

func TestSimulationRecordStore_InsertBulkAtomicity(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSimulationRecordStore(pool)

	records := []*domain.SimulationRecord{
		createTestSimulationRecord("t1", "s1", 10),
		createTestSimulationRecord("t1", "s1", 10),
	}

	err := store.InsertBulk(ctx, records)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed batch must insert nothing")
}
