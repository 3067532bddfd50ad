package service

import (
	"context"
	"fmt"

	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

// Pricebook computes order totals from a unit price source. It satisfies
// the same Pricer contract the coordinator consumes, so it can serve quotes
// remotely behind the pricing service or in-process.
type Pricebook struct {
	source port.PriceSource
}

func NewPricebook(source port.PriceSource) *Pricebook {
	return &Pricebook{source: source}
}

// Quote sums unit price times quantity over the given lines. Items without
// a listed price are returned separately; the rest of the quote stands.
func (p *Pricebook) Quote(ctx context.Context, lines []domain.Line) (int64, []string, error) {
	var total int64
	var unpriced []string

	for _, line := range lines {
		cents, ok, err := p.source.UnitCents(ctx, line.ItemID)
		if err != nil {
			return 0, nil, fmt.Errorf("unit price %s: %w", line.ItemID, err)
		}
		if !ok {
			unpriced = append(unpriced, line.ItemID)
			continue
		}
		total += cents * int64(line.Quantity)
	}

	return total, unpriced, nil
}
