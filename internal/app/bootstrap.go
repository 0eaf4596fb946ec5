package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/internal/event"
	"github.com/acebytes/trader/internal/infra"
	"github.com/acebytes/trader/internal/storage"
	"github.com/acebytes/trader/internal/telemetry"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config *infra.Config
	Store  *storage.StateStore

	// Seed is the account snapshot the engine starts from: the persisted
	// one when the store has it, a fresh account otherwise.
	Seed domain.AccountSnapshot
	Fees domain.FeeSchedule

	unlock func()
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logging, DB).
func (b *Bootstrap) Initialize() error {
	event.Warmup()

	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	b.Config = cfg

	slog.SetDefault(infra.NewLogger(cfg))
	infra.PrintBanner(cfg)

	// Data isolation per mode: _workspace/data/{paper,live}/state.db, so a
	// paper run can never touch the live journal.
	mode := strings.ToLower(cfg.Trading.Mode)
	workDir := infra.GetWorkspaceDir()
	dataDir := filepath.Join(workDir, "data", mode)
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	dbPath := filepath.Join(dataDir, "state.db")
	store, err := storage.NewStateStore(dbPath)
	if err != nil {
		return err
	}
	b.Store = store
	slog.Info("State store initialized", "path", dbPath, "mode", mode)

	return b.loadState()
}

// loadState resolves the engine seed and the fee schedule.
func (b *Bootstrap) loadState() error {
	ctx := context.Background()

	snap, ok, err := b.Store.LoadAccount(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if ok {
		b.Seed = snap
		slog.Info("Account restored",
			slog.String("balance_usd", snap.BalanceUSD.String()),
			slog.String("balance_btc", snap.BalanceBTC.String()),
			slog.String("support_zone", snap.SupportZoneMicros.String()))
	} else if !b.Config.IsLive() {
		// Fresh paper account starts with the configured bankroll. A
		// fresh live account starts at zero and learns its balances from
		// the wallet query the startup sell check performs.
		b.Seed = domain.AccountSnapshot{BalanceUSD: b.Config.PaperBalanceMicros()}
		slog.Info("Fresh paper account",
			slog.String("balance_usd", b.Seed.BalanceUSD.String()))
	}

	fees, ok, err := b.Store.LoadFees(ctx)
	if err != nil {
		return fmt.Errorf("failed to load fees: %w", err)
	}
	if !ok {
		fees = domain.DefaultFees()
		if err := b.Store.SaveFees(ctx, fees); err != nil {
			return fmt.Errorf("failed to save default fees: %w", err)
		}
	}
	b.Fees = fees

	return nil
}

// SaveAccount persists an engine snapshot, logging rather than failing:
// a broken disk must not stop the trading loop.
func (b *Bootstrap) SaveAccount(snap domain.AccountSnapshot) {
	if err := b.Store.SaveAccount(context.Background(), snap); err != nil {
		slog.Error("Failed to persist account", slog.Any("err", err))
	}
}

// JournalSink adapts the state store into a telemetry sink so order
// lifecycle events land in the local journal alongside the webhook.
func (b *Bootstrap) JournalSink() telemetry.Recorder {
	return &journalSink{store: b.Store}
}

type journalSink struct {
	store *storage.StateStore
}

func (j *journalSink) RecordSnapshot(telemetry.Snapshot) error { return nil }

func (j *journalSink) RecordOrder(o domain.TradeOrder) error {
	return j.store.JournalOrder(context.Background(), o)
}

// Close releases the store and the instance lock.
func (b *Bootstrap) Close() {
	if b.Store != nil {
		b.Store.Close()
	}
	if b.unlock != nil {
		b.unlock()
	}
}
