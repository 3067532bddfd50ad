package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

var ErrInvalidOrder = errors.New("invalid order")

const lineErrUnknownItem = "unknown item"

// OrderCoordinator owns the order lifecycle: validate, fan out to the robot
// fleet, wait on the reply barrier, reconcile against the ledger, price what
// was fulfilled, respond.
//
// The ledger is the single source of truth for quantities. A robot report
// only establishes that its aisle completed inside the window; the numbers
// on the receipt always come from ledger reserves and adds.
type OrderCoordinator struct {
	catalog    *domain.Catalog
	ledger     port.StockLedger
	dispatcher *TaskDispatcher
	pricer     port.Pricer
}

func NewOrderCoordinator(catalog *domain.Catalog, ledger port.StockLedger, dispatcher *TaskDispatcher, pricer port.Pricer) *OrderCoordinator {
	return &OrderCoordinator{
		catalog:    catalog,
		ledger:     ledger,
		dispatcher: dispatcher,
		pricer:     pricer,
	}
}

// Process runs one order end to end. The error return covers rejected
// orders and nothing else: timeouts, failed aisles, unknown items, and
// pricing outages all degrade into receipt fields instead.
func (c *OrderCoordinator) Process(ctx context.Context, order domain.Order) (*domain.Receipt, error) {
	if err := validate(order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	// Unknown items fail per line and never reach a robot.
	dispatchable := order
	dispatchable.Lines = nil
	for _, line := range order.Lines {
		if _, ok := c.catalog.AisleOf(line.ItemID); ok {
			dispatchable.Lines = append(dispatchable.Lines, line)
		}
	}

	var results map[domain.Aisle]domain.AisleResult
	complete := true
	if len(dispatchable.Lines) > 0 {
		started := time.Now()
		pending := c.dispatcher.Dispatch(ctx, dispatchable)
		results, complete = pending.Wait(ctx)
		if !complete {
			log.Warn().
				Str("order_id", order.ID).
				Dur("waited", time.Since(started)).
				Msg("order resolved partial")
		}
	}

	receipt := &domain.Receipt{
		OrderID:   order.ID,
		Kind:      order.Kind,
		CostKnown: true,
		Partial:   !complete,
		Lines:     make([]domain.LineResult, 0, len(order.Lines)),
	}

	for _, line := range order.Lines {
		lr := domain.LineResult{ItemID: line.ItemID, Requested: line.Quantity}
		aisle, known := c.catalog.AisleOf(line.ItemID)
		switch {
		case !known:
			lr.Err = lineErrUnknownItem
		case reportedOK(results, aisle):
			fulfilled, err := c.settle(ctx, order.Kind, line)
			switch {
			case errors.Is(err, port.ErrUnknownItem):
				lr.Err = lineErrUnknownItem
			case err != nil:
				log.Error().Err(err).Str("order_id", order.ID).Str("item", line.ItemID).Msg("ledger update failed")
				lr.Err = "ledger unavailable"
			default:
				lr.Fulfilled = fulfilled
			}
		default:
			// Aisle timed out or reported failure; nothing moved, so the
			// ledger stays untouched and the line settles at zero.
		}
		receipt.Lines = append(receipt.Lines, lr)
	}

	c.price(ctx, receipt)

	return receipt, nil
}

// settle applies one fulfilled line to the ledger and returns the quantity
// that actually moved.
func (c *OrderCoordinator) settle(ctx context.Context, kind domain.OrderKind, line domain.Line) (int, error) {
	if kind == domain.OrderKindRestock {
		if _, err := c.ledger.Add(ctx, line.ItemID, line.Quantity); err != nil {
			return 0, err
		}
		return line.Quantity, nil
	}
	return c.ledger.Reserve(ctx, line.ItemID, line.Quantity)
}

// price fills in the receipt total for fetch orders. A pricing outage clears
// CostKnown and nothing else: the customer still learns what was fulfilled.
func (c *OrderCoordinator) price(ctx context.Context, receipt *domain.Receipt) {
	if receipt.Kind != domain.OrderKindFetch {
		return
	}

	lines := make([]domain.Line, 0, len(receipt.Lines))
	for _, lr := range receipt.Lines {
		if lr.Fulfilled > 0 {
			lines = append(lines, domain.Line{ItemID: lr.ItemID, Quantity: lr.Fulfilled})
		}
	}
	if len(lines) == 0 {
		return
	}

	total, unpriced, err := c.pricer.Quote(ctx, lines)
	if err != nil {
		log.Error().Err(err).Str("order_id", receipt.OrderID).Msg("pricing unavailable")
		receipt.CostKnown = false
		return
	}
	if len(unpriced) > 0 {
		log.Warn().Str("order_id", receipt.OrderID).Strs("items", unpriced).Msg("fulfilled items missing a unit price")
	}
	receipt.TotalCents = total
}

func validate(order domain.Order) error {
	if order.Kind != domain.OrderKindFetch && order.Kind != domain.OrderKindRestock {
		return fmt.Errorf("%w: kind %q", ErrInvalidOrder, order.Kind)
	}
	if len(order.Lines) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for _, line := range order.Lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: quantity %d for %q", ErrInvalidOrder, line.Quantity, line.ItemID)
		}
	}
	return nil
}

func reportedOK(results map[domain.Aisle]domain.AisleResult, aisle domain.Aisle) bool {
	res, ok := results[aisle]
	return ok && res.Status == domain.TaskStatusOK
}
