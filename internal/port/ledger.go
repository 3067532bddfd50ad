package port

import (
	"context"
	"errors"
)

// ErrUnknownItem is returned by every ledger backend for item ids outside
// the seeded catalog. The operation leaves no trace.
var ErrUnknownItem = errors.New("unknown item")

type StockLedger interface {
	// Reserve atomically deducts min(qty, available) and returns the amount taken
	Reserve(ctx context.Context, itemID string, qty int) (int, error)

	// Add increases stock with no upper bound and returns the new quantity
	Add(ctx context.Context, itemID string, qty int) (int, error)

	// Quantity reports the current stock of an item
	Quantity(ctx context.Context, itemID string) (int, error)
}
