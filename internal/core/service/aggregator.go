package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/grocer/internal/core/domain"
)

const DefaultBarrierTimeout = 10 * time.Second

// ReplyAggregator is the barrier between task fan-out and order completion.
// Every in-flight order holds one slot per dispatched aisle, keyed by the
// task's correlation id. Robot reports fill slots; the last report, the
// deadline, or caller cancellation resolves the order, whichever comes
// first, and resolution fires exactly once.
type ReplyAggregator struct {
	timeout time.Duration

	mu      sync.Mutex
	waiting map[string]*Pending // correlation id -> order barrier
}

func NewReplyAggregator(timeout time.Duration) *ReplyAggregator {
	if timeout <= 0 {
		timeout = DefaultBarrierTimeout
	}
	return &ReplyAggregator{
		timeout: timeout,
		waiting: make(map[string]*Pending),
	}
}

// Pending tracks one order's outstanding aisle tasks. All fields are
// guarded by the owning aggregator's mutex.
type Pending struct {
	agg      *ReplyAggregator
	orderID  string
	expected map[string]domain.Aisle // correlation id -> aisle
	results  map[domain.Aisle]domain.AisleResult
	done     chan struct{}
	resolved bool
	complete bool
}

// Register arms the barrier for an order. It must run before the order's
// tasks are published: a robot may reply faster than the dispatcher finishes
// its publish loop, and that reply has to find its slot already waiting.
// Registering zero tasks resolves immediately.
func (a *ReplyAggregator) Register(orderID string, tasks []domain.AisleTask) *Pending {
	p := &Pending{
		agg:      a,
		orderID:  orderID,
		expected: make(map[string]domain.Aisle, len(tasks)),
		results:  make(map[domain.Aisle]domain.AisleResult, len(tasks)),
		done:     make(chan struct{}),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, task := range tasks {
		p.expected[task.CorrelationID] = task.Aisle
		a.waiting[task.CorrelationID] = p
	}
	if len(p.expected) == 0 {
		p.resolveLocked(true)
	}

	return p
}

// Submit delivers a robot report to its order's barrier. Unknown, duplicate,
// and late correlation ids are dropped without any observable effect; the
// return value says whether the report was recorded.
func (a *ReplyAggregator) Submit(res domain.AisleResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.waiting[res.CorrelationID]
	if !ok {
		return false
	}
	delete(a.waiting, res.CorrelationID)

	// The registered aisle is authoritative; a mislabeled report cannot
	// fill another aisle's slot.
	aisle := p.expected[res.CorrelationID]
	p.results[aisle] = res

	if len(p.results) == len(p.expected) {
		p.resolveLocked(true)
	}

	return true
}

// Wait blocks until every aisle has reported, the barrier deadline fires,
// or ctx ends. It returns the reports that arrived in time and whether the
// set is complete. After Wait returns, reports for this order are no-ops.
func (p *Pending) Wait(ctx context.Context) (map[domain.Aisle]domain.AisleResult, bool) {
	timer := time.NewTimer(p.agg.timeout)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		p.expire()
	case <-ctx.Done():
		p.expire()
	}

	p.agg.mu.Lock()
	defer p.agg.mu.Unlock()

	results := make(map[domain.Aisle]domain.AisleResult, len(p.results))
	for aisle, res := range p.results {
		results[aisle] = res
	}
	return results, p.complete
}

// expire resolves the order as timed out unless the final report won the
// race to the lock first.
func (p *Pending) expire() {
	p.agg.mu.Lock()
	defer p.agg.mu.Unlock()
	p.resolveLocked(false)
}

// resolveLocked moves the order out of WAITING exactly once, wakes the
// coordinator, and drops every remaining slot so late reports miss.
func (p *Pending) resolveLocked(complete bool) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.complete = complete

	for id := range p.expected {
		delete(p.agg.waiting, id)
	}
	close(p.done)
}
