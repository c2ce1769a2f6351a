package memory

import (
	"context"
	"errors"
	"testing"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

func TestSimulationRecordStore_InsertAndGet(t *testing.T) {
	store := NewSimulationRecordStore()
	ctx := context.Background()

	record := &domain.SimulationRecord{
		TradeID:     "trade1",
		SeriesID:    "series1",
		TokenMint:   "mintA",
		EventKind:   domain.EventTakeProfit,
		EffectPct:   8.0,
		Stake:       200,
		Payout:      216,
		Profit:      16,
		TimeOfEvent: 20,
	}

	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "trade1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Profit != 16 {
		t.Errorf("Profit mismatch: got %f", got.Profit)
	}
}

func TestSimulationRecordStore_DuplicateKey(t *testing.T) {
	store := NewSimulationRecordStore()
	ctx := context.Background()

	record := &domain.SimulationRecord{TradeID: "trade1", SeriesID: "series1"}

	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, record)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSimulationRecordStore_NotFound(t *testing.T) {
	store := NewSimulationRecordStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSimulationRecordStore_GetAllChronological(t *testing.T) {
	store := NewSimulationRecordStore()
	ctx := context.Background()

	records := []*domain.SimulationRecord{
		{TradeID: "t3", SeriesID: "s3", TimeOfEvent: 30},
		{TradeID: "t1", SeriesID: "s1", TimeOfEvent: 10},
		{TradeID: "t2", SeriesID: "s2", TimeOfEvent: 20},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if got[0].TradeID != "t1" || got[1].TradeID != "t2" || got[2].TradeID != "t3" {
		t.Errorf("Records not chronological: %s, %s, %s",
			got[0].TradeID, got[1].TradeID, got[2].TradeID)
	}
}

func TestSimulationRecordStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	store := NewSimulationRecordStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.SimulationRecord{
		{TradeID: "t1", SeriesID: "s1"},
		{TradeID: "t1", SeriesID: "s1"},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Failed batch must insert nothing, got %d records", len(all))
	}
}
