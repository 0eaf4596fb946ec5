package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/acebytes/trader/internal/domain"
)

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := NewStateStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStateStore_AccountRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Fresh store has nothing.
	_, ok, err := store.LoadAccount(ctx)
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}
	if ok {
		t.Fatal("fresh store must report no account")
	}

	snap := domain.AccountSnapshot{
		BalanceUSD:        1_000_000_000,
		SupportZoneMicros: 48_000_000_000,
		LastBuy: &domain.TradeOrder{
			ID:          42,
			ClientID:    "c-42",
			Symbol:      "btcusd",
			Side:        domain.SideBuy,
			PriceMicros: 48_000_000_000,
			QtySats:     2_000_000,
			Status:      domain.StatusExecuted,
		},
	}
	if err := store.SaveAccount(ctx, snap); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	loaded, ok, err := store.LoadAccount(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadAccount after save: ok=%v err=%v", ok, err)
	}
	if loaded.BalanceUSD != snap.BalanceUSD || loaded.SupportZoneMicros != snap.SupportZoneMicros {
		t.Errorf("snapshot mismatch: %+v", loaded)
	}
	if loaded.LastBuy == nil || loaded.LastBuy.ID != 42 || loaded.LastBuy.Status != domain.StatusExecuted {
		t.Errorf("last buy not restored: %+v", loaded.LastBuy)
	}
	if loaded.LastSell != nil {
		t.Errorf("expected no last sell, got %+v", loaded.LastSell)
	}

	// Saving again overwrites, no duplicate rows.
	snap.BalanceUSD = 0
	if err := store.SaveAccount(ctx, snap); err != nil {
		t.Fatalf("SaveAccount overwrite failed: %v", err)
	}
	loaded, _, _ = store.LoadAccount(ctx)
	if loaded.BalanceUSD != 0 {
		t.Errorf("overwrite not applied: %+v", loaded)
	}
}

func TestStateStore_FeesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.LoadFees(ctx)
	if err != nil {
		t.Fatalf("LoadFees failed: %v", err)
	}
	if ok {
		t.Fatal("fresh store must report no fees")
	}

	if err := store.SaveFees(ctx, domain.FeeSchedule{MakerMicros: 1000, TakerMicros: 2000}); err != nil {
		t.Fatalf("SaveFees failed: %v", err)
	}

	fees, ok, err := store.LoadFees(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadFees after save: ok=%v err=%v", ok, err)
	}
	if fees.RoundTripMicros() != 3000 {
		t.Errorf("fees mismatch: %+v", fees)
	}
}

func TestStateStore_OrderJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := domain.TradeOrder{
		ID:          7,
		ClientID:    "c-7",
		Symbol:      "btcusd",
		Side:        domain.SideSell,
		PriceMicros: 50_650_000_000,
		QtySats:     2_000_000,
		Status:      domain.StatusActive,
	}
	if err := store.JournalOrder(ctx, order); err != nil {
		t.Fatalf("JournalOrder failed: %v", err)
	}

	// Lifecycle transition appends a second row for the same order id.
	order.Status = domain.StatusExecuted
	if err := store.JournalOrder(ctx, order); err != nil {
		t.Fatalf("JournalOrder failed: %v", err)
	}

	orders, err := store.RecentOrders(ctx, 10)
	if err != nil {
		t.Fatalf("RecentOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 journal rows, got %d", len(orders))
	}
	if orders[0].Status != domain.StatusExecuted || orders[1].Status != domain.StatusActive {
		t.Errorf("journal not newest-first: %+v", orders)
	}
	if orders[0].ID != 7 || orders[0].PriceMicros != 50_650_000_000 {
		t.Errorf("row mismatch: %+v", orders[0])
	}
}
