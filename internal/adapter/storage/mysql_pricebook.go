package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// MySQLPriceBook loads unit prices from the prices table and serves lookups
// from memory. Load replaces the whole book at once, so a half-finished
// reload is never visible.
type MySQLPriceBook struct {
	db *sql.DB

	mu     sync.RWMutex
	prices map[string]int64
}

func NewMySQLPriceBook(db *sql.DB) *MySQLPriceBook {
	return &MySQLPriceBook{db: db, prices: make(map[string]int64)}
}

func (b *MySQLPriceBook) Load(ctx context.Context) error {
	rows, err := b.db.QueryContext(ctx, `SELECT item_id, unit_cents FROM prices`)
	if err != nil {
		return fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]int64)
	for rows.Next() {
		var itemID string
		var cents int64
		if err := rows.Scan(&itemID, &cents); err != nil {
			return fmt.Errorf("scan price row: %w", err)
		}
		prices[itemID] = cents
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read prices: %w", err)
	}

	b.mu.Lock()
	b.prices = prices
	b.mu.Unlock()

	return nil
}

func (b *MySQLPriceBook) UnitCents(ctx context.Context, itemID string) (int64, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cents, ok := b.prices[itemID]
	return cents, ok, nil
}
