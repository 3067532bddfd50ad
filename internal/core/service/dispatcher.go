package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

// TaskDispatcher fans an order out as one task per aisle on the shared
// broadcast channel. Every robot sees every task and picks out its own
// aisle, so the dispatcher never needs to know which robots exist.
type TaskDispatcher struct {
	catalog   *domain.Catalog
	publisher port.TaskPublisher
	agg       *ReplyAggregator
}

func NewTaskDispatcher(catalog *domain.Catalog, publisher port.TaskPublisher, agg *ReplyAggregator) *TaskDispatcher {
	return &TaskDispatcher{
		catalog:   catalog,
		publisher: publisher,
		agg:       agg,
	}
}

// Dispatch groups the order's lines by aisle, arms the reply barrier, and
// only then broadcasts the tasks, so a reply can never outrun its own slot.
// Lines for unknown items are skipped. A publish failure leaves the aisle
// on the barrier to run out the clock: the order degrades to partial
// instead of failing outright.
func (d *TaskDispatcher) Dispatch(ctx context.Context, order domain.Order) *Pending {
	byAisle := make(map[domain.Aisle][]domain.Line)
	var aisles []domain.Aisle
	for _, line := range order.Lines {
		aisle, ok := d.catalog.AisleOf(line.ItemID)
		if !ok {
			continue
		}
		if _, seen := byAisle[aisle]; !seen {
			aisles = append(aisles, aisle)
		}
		byAisle[aisle] = append(byAisle[aisle], line)
	}

	tasks := make([]domain.AisleTask, 0, len(aisles))
	for _, aisle := range aisles {
		tasks = append(tasks, domain.AisleTask{
			CorrelationID: uuid.New().String(),
			OrderID:       order.ID,
			Kind:          order.Kind,
			Aisle:         aisle,
			Lines:         byAisle[aisle],
		})
	}

	pending := d.agg.Register(order.ID, tasks)

	for _, task := range tasks {
		if err := d.publisher.PublishTask(ctx, task); err != nil {
			log.Error().
				Err(err).
				Str("order_id", order.ID).
				Str("aisle", string(task.Aisle)).
				Msg("task publish failed")
		}
	}

	return pending
}
