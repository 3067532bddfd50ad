package storage

import (
	"context"
	"sync"

	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

// MemoryLedger is the default stock ledger. All access serializes through
// one mutex, so a reserve observes and deducts in a single step and
// concurrent reserves for the same item never oversell.
type MemoryLedger struct {
	mu    sync.Mutex
	stock map[string]int
}

func NewMemoryLedger(catalog *domain.Catalog, initialStock int) *MemoryLedger {
	items := catalog.Items()
	stock := make(map[string]int, len(items))
	for _, item := range items {
		stock[item] = initialStock
	}
	return &MemoryLedger{stock: stock}
}

func (l *MemoryLedger) Reserve(ctx context.Context, itemID string, qty int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available, ok := l.stock[itemID]
	if !ok {
		return 0, port.ErrUnknownItem
	}

	take := qty
	if take > available {
		take = available
	}
	if take < 0 {
		take = 0
	}
	l.stock[itemID] = available - take

	return take, nil
}

func (l *MemoryLedger) Add(ctx context.Context, itemID string, qty int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available, ok := l.stock[itemID]
	if !ok {
		return 0, port.ErrUnknownItem
	}
	if qty < 0 {
		qty = 0
	}
	l.stock[itemID] = available + qty

	return available + qty, nil
}

func (l *MemoryLedger) Quantity(ctx context.Context, itemID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available, ok := l.stock[itemID]
	if !ok {
		return 0, port.ErrUnknownItem
	}
	return available, nil
}
