package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"

	_ "github.com/glebarez/go-sqlite"
)

const (
	keyAccount = "account"
	keyFees    = "fees"
)

// StateStore persists the bootstrap state (account snapshot, fee
// schedule) and an append-only journal of order lifecycle events in
// SQLite.
type StateStore struct {
	db *sql.DB
}

// NewStateStore opens the SQLite file with WAL mode enabled and creates
// the schema if needed.
func NewStateStore(dbPath string) (*StateStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;", // 2MB cache
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata table: %w", err)
	}

	// One row per lifecycle event, so the venue order id repeats as the
	// order moves ACTIVE -> terminal.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			client_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			price_micros INTEGER NOT NULL,
			qty_sats INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			recorded_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders table: %w", err)
	}

	return &StateStore{db: db}, nil
}

// SaveAccount persists the account snapshot.
func (s *StateStore) SaveAccount(ctx context.Context, snap domain.AccountSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	return s.upsertMetadata(ctx, keyAccount, string(payload))
}

// LoadAccount returns the persisted snapshot. The second return is false
// when the store has never seen one.
func (s *StateStore) LoadAccount(ctx context.Context) (domain.AccountSnapshot, bool, error) {
	value, err := s.getMetadata(ctx, keyAccount)
	if err != nil || value == "" {
		return domain.AccountSnapshot{}, false, err
	}

	var snap domain.AccountSnapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return domain.AccountSnapshot{}, false, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return snap, true, nil
}

// SaveFees persists the fee schedule.
func (s *StateStore) SaveFees(ctx context.Context, fees domain.FeeSchedule) error {
	payload, err := json.Marshal(fees)
	if err != nil {
		return fmt.Errorf("failed to marshal fees: %w", err)
	}
	return s.upsertMetadata(ctx, keyFees, string(payload))
}

// LoadFees returns the persisted fee schedule, or false when absent.
func (s *StateStore) LoadFees(ctx context.Context) (domain.FeeSchedule, bool, error) {
	value, err := s.getMetadata(ctx, keyFees)
	if err != nil || value == "" {
		return domain.FeeSchedule{}, false, err
	}

	var fees domain.FeeSchedule
	if err := json.Unmarshal([]byte(value), &fees); err != nil {
		return domain.FeeSchedule{}, false, fmt.Errorf("failed to unmarshal fees: %w", err)
	}
	return fees, true, nil
}

// JournalOrder appends one order lifecycle event.
func (s *StateStore) JournalOrder(ctx context.Context, o domain.TradeOrder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders
			(order_id, client_id, symbol, side, price_micros, qty_sats, status, created_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ClientID, o.Symbol, string(o.Side),
		int64(o.PriceMicros), int64(o.QtySats), string(o.Status),
		int64(o.CreatedUnixM), time.Now().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to journal order %d: %w", o.ID, err)
	}
	return nil
}

// RecentOrders returns up to limit journal rows, newest first.
func (s *StateStore) RecentOrders(ctx context.Context, limit int) ([]domain.TradeOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_id, client_id, symbol, side, price_micros, qty_sats, status, created_at
		 FROM orders ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.TradeOrder
	for rows.Next() {
		var o domain.TradeOrder
		var side, status string
		var price, qty, created int64
		if err := rows.Scan(&o.ID, &o.ClientID, &o.Symbol, &side, &price, &qty, &status, &created); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Side = domain.Side(side)
		o.Status = domain.OrderStatus(status)
		o.PriceMicros = quant.PriceMicros(price)
		o.QtySats = quant.QtySats(qty)
		o.CreatedUnixM = quant.TimeStamp(created)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Close closes the database connection.
func (s *StateStore) Close() error {
	return s.db.Close()
}

func (s *StateStore) upsertMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, value, time.Now().UnixMicro(),
	)
	return err
}

func (s *StateStore) getMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
