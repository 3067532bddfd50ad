package port

import (
	"context"

	"github.com/rl1809/grocer/internal/core/domain"
)

type Pricer interface {
	// Quote prices the given lines, returning total cents and any unpriced item ids
	Quote(ctx context.Context, lines []domain.Line) (int64, []string, error)
}

type PriceSource interface {
	// UnitCents returns an item's unit price; ok is false for unlisted items
	UnitCents(ctx context.Context, itemID string) (cents int64, ok bool, err error)
}
