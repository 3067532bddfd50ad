package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rl1809/grocer/internal/core/domain"
)

// capturePublisher records published tasks and can run a hook inline,
// before PublishTask returns.
type capturePublisher struct {
	mu        sync.Mutex
	published []domain.AisleTask
	onPublish func(task domain.AisleTask) error
}

func (p *capturePublisher) PublishTask(ctx context.Context, task domain.AisleTask) error {
	p.mu.Lock()
	p.published = append(p.published, task)
	p.mu.Unlock()
	if p.onPublish != nil {
		return p.onPublish(task)
	}
	return nil
}

func (p *capturePublisher) tasks() []domain.AisleTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AisleTask, len(p.published))
	copy(out, p.published)
	return out
}

func TestDispatch_GroupsLinesByAisle(t *testing.T) {
	catalog := domain.DefaultCatalog()
	publisher := &capturePublisher{}
	agg := NewReplyAggregator(time.Second)
	dispatcher := NewTaskDispatcher(catalog, publisher, agg)

	order := domain.Order{
		ID:   "order-1",
		Kind: domain.OrderKindFetch,
		Lines: []domain.Line{
			{ItemID: "bagels", Quantity: 2},
			{ItemID: "milk", Quantity: 1},
			{ItemID: "bread", Quantity: 3},
		},
	}

	dispatcher.Dispatch(context.Background(), order)

	tasks := publisher.tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	byAisle := make(map[domain.Aisle]domain.AisleTask)
	for _, task := range tasks {
		byAisle[task.Aisle] = task
	}

	breadTask, ok := byAisle[domain.AisleBread]
	if !ok {
		t.Fatal("missing bread aisle task")
	}
	if len(breadTask.Lines) != 2 {
		t.Errorf("bread task should carry bagels and bread, got %v", breadTask.Lines)
	}

	dairyTask, ok := byAisle[domain.AisleDairy]
	if !ok {
		t.Fatal("missing dairy aisle task")
	}
	if len(dairyTask.Lines) != 1 || dairyTask.Lines[0].ItemID != "milk" {
		t.Errorf("dairy task should carry milk, got %v", dairyTask.Lines)
	}

	for _, task := range tasks {
		if task.CorrelationID == "" {
			t.Error("task published without a correlation id")
		}
		if task.OrderID != order.ID {
			t.Errorf("task carries order id %q, want %q", task.OrderID, order.ID)
		}
		if task.Kind != order.Kind {
			t.Errorf("task carries kind %q, want %q", task.Kind, order.Kind)
		}
	}
	if tasks[0].CorrelationID == tasks[1].CorrelationID {
		t.Error("tasks for different aisles share a correlation id")
	}
}

func TestDispatch_SkipsUnknownItems(t *testing.T) {
	catalog := domain.DefaultCatalog()
	publisher := &capturePublisher{}
	agg := NewReplyAggregator(time.Second)
	dispatcher := NewTaskDispatcher(catalog, publisher, agg)

	order := domain.Order{
		ID:    "order-1",
		Kind:  domain.OrderKindFetch,
		Lines: []domain.Line{{ItemID: "caviar", Quantity: 1}},
	}

	pending := dispatcher.Dispatch(context.Background(), order)

	if got := len(publisher.tasks()); got != 0 {
		t.Errorf("expected no tasks for unknown items, got %d", got)
	}

	// With nothing to wait on, the barrier resolves immediately.
	results, complete := pending.Wait(context.Background())
	if !complete || len(results) != 0 {
		t.Errorf("expected an empty complete barrier, got complete=%v results=%d", complete, len(results))
	}
}

func TestDispatch_BarrierArmedBeforePublish(t *testing.T) {
	catalog := domain.DefaultCatalog()
	agg := NewReplyAggregator(time.Second)

	// The publisher answers inline, before Dispatch's publish loop
	// returns. If registration happened after publishing, this report
	// would hit an unknown correlation id and the wait would time out.
	publisher := &capturePublisher{}
	publisher.onPublish = func(task domain.AisleTask) error {
		if !agg.Submit(domain.AisleResult{
			CorrelationID: task.CorrelationID,
			Aisle:         task.Aisle,
			Status:        domain.TaskStatusOK,
			Lines:         task.Lines,
			RobotID:       "robot-inline",
		}) {
			t.Error("report submitted during publish was dropped")
		}
		return nil
	}
	dispatcher := NewTaskDispatcher(catalog, publisher, agg)

	order := domain.Order{
		ID:    "order-1",
		Kind:  domain.OrderKindFetch,
		Lines: []domain.Line{{ItemID: "bagels", Quantity: 2}},
	}

	pending := dispatcher.Dispatch(context.Background(), order)

	start := time.Now()
	results, complete := pending.Wait(context.Background())
	if !complete {
		t.Error("expected complete resolution")
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("wait took %v, report was likely dropped", elapsed)
	}
}

func TestDispatch_PublishFailureTimesOutAisle(t *testing.T) {
	catalog := domain.DefaultCatalog()
	agg := NewReplyAggregator(50 * time.Millisecond)

	publisher := &capturePublisher{}
	publisher.onPublish = func(task domain.AisleTask) error {
		if task.Aisle == domain.AisleDairy {
			return errors.New("broker unavailable")
		}
		agg.Submit(domain.AisleResult{
			CorrelationID: task.CorrelationID,
			Aisle:         task.Aisle,
			Status:        domain.TaskStatusOK,
			Lines:         task.Lines,
		})
		return nil
	}
	dispatcher := NewTaskDispatcher(catalog, publisher, agg)

	order := domain.Order{
		ID:   "order-1",
		Kind: domain.OrderKindFetch,
		Lines: []domain.Line{
			{ItemID: "bagels", Quantity: 2},
			{ItemID: "milk", Quantity: 1},
		},
	}

	pending := dispatcher.Dispatch(context.Background(), order)

	results, complete := pending.Wait(context.Background())
	if complete {
		t.Error("expected a timed-out resolution when one publish fails")
	}
	if _, ok := results[domain.AisleBread]; !ok {
		t.Error("bread aisle should still have reported")
	}
	if _, ok := results[domain.AisleDairy]; ok {
		t.Error("dairy aisle never received its task and cannot have reported")
	}
}
