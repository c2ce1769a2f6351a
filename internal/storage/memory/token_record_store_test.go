package memory

import (
	"context"
	"errors"
	"testing"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/storage"
)

func TestTokenRecordStore_InsertAndGetByMint(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	record := &domain.TokenRecord{
		TokenMint:   "mintA",
		TokenName:   "Token A",
		DetectedAt:  1000,
		BoostAmount: 500,
	}

	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByMint(ctx, "mintA")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}
	if got[0].TokenName != "Token A" {
		t.Errorf("TokenName mismatch: got %q", got[0].TokenName)
	}
}

func TestTokenRecordStore_DuplicateKey(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	record := &domain.TokenRecord{TokenMint: "mintA", DetectedAt: 1000}

	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, record)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same mint at a different detection time is a new boost cycle.
	later := &domain.TokenRecord{TokenMint: "mintA", DetectedAt: 2000}
	if err := store.Insert(ctx, later); err != nil {
		t.Errorf("Insert with different detected_at failed: %v", err)
	}
}

func TestTokenRecordStore_GetByMintOrdering(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	records := []*domain.TokenRecord{
		{TokenMint: "mintA", DetectedAt: 3000},
		{TokenMint: "mintA", DetectedAt: 1000},
		{TokenMint: "mintB", DetectedAt: 2000},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByMint(ctx, "mintA")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].DetectedAt != 1000 || got[1].DetectedAt != 3000 {
		t.Errorf("Records not ordered by detected_at: %d, %d", got[0].DetectedAt, got[1].DetectedAt)
	}
}

func TestTokenRecordStore_InsertBulkDuplicateFailsBatch(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	records := []*domain.TokenRecord{
		{TokenMint: "mintA", DetectedAt: 1000},
		{TokenMint: "mintA", DetectedAt: 1000},
	}

	err := store.InsertBulk(ctx, records)
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

func TestTokenRecordStore_GetDetectedSince(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	records := []*domain.TokenRecord{
		{TokenMint: "mintA", DetectedAt: 1000},
		{TokenMint: "mintB", DetectedAt: 2000},
		{TokenMint: "mintC", DetectedAt: 3000},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetDetectedSince(ctx, 2000)
	if err != nil {
		t.Fatalf("GetDetectedSince failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].TokenMint != "mintB" || got[1].TokenMint != "mintC" {
		t.Errorf("Wrong records: %s, %s", got[0].TokenMint, got[1].TokenMint)
	}
}

func TestTokenRecordStore_DefensiveCopy(t *testing.T) {
	store := NewTokenRecordStore()
	ctx := context.Background()

	record := &domain.TokenRecord{TokenMint: "mintA", DetectedAt: 1000, RugScore: 10}
	if err := store.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	record.RugScore = 99

	got, err := store.GetByMint(ctx, "mintA")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if got[0].RugScore != 10 {
		t.Errorf("Store must not share memory with caller: RugScore = %d", got[0].RugScore)
	}
}
