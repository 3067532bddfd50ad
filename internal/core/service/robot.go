package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/port"
)

const (
	defaultReportAttempts = 5
	reportBackoffBase     = 100 * time.Millisecond
)

// Robot services a single aisle. It watches the shared task feed, ignores
// tasks for other aisles, simulates the shelf work, and reports the outcome
// back to the coordinator.
type Robot struct {
	id        string
	aisle     domain.Aisle
	reporter  port.ResultReporter
	workDelay time.Duration
	attempts  int
	backoff   time.Duration
}

func NewRobot(id string, aisle domain.Aisle, reporter port.ResultReporter, workDelay time.Duration, attempts int) *Robot {
	if attempts < 1 {
		attempts = defaultReportAttempts
	}
	return &Robot{
		id:        id,
		aisle:     aisle,
		reporter:  reporter,
		workDelay: workDelay,
		attempts:  attempts,
		backoff:   reportBackoffBase,
	}
}

// Run consumes tasks until the feed closes or ctx ends.
func (r *Robot) Run(ctx context.Context, tasks <-chan domain.AisleTask) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			if task.Aisle != r.aisle {
				continue
			}
			r.handle(ctx, task)
		}
	}
}

func (r *Robot) handle(ctx context.Context, task domain.AisleTask) {
	log.Info().
		Str("robot_id", r.id).
		Str("order_id", task.OrderID).
		Str("kind", string(task.Kind)).
		Int("lines", len(task.Lines)).
		Msg("task accepted")

	// Shelf work is simulated with a fixed delay; the coordinator's ledger
	// decides the real quantities during reconciliation.
	if r.workDelay > 0 {
		select {
		case <-time.After(r.workDelay):
		case <-ctx.Done():
			return
		}
	}

	r.report(ctx, domain.AisleResult{
		CorrelationID: task.CorrelationID,
		Aisle:         r.aisle,
		Status:        domain.TaskStatusOK,
		Lines:         task.Lines,
		RobotID:       r.id,
	})
}

// report retries with exponential backoff and jitter, then gives up and
// lets the coordinator's barrier run out the clock. The task itself is
// never retried.
func (r *Robot) report(ctx context.Context, res domain.AisleResult) {
	for attempt := 0; attempt < r.attempts; attempt++ {
		accepted, err := r.reporter.Report(ctx, res)
		if err == nil {
			if !accepted {
				log.Warn().
					Str("robot_id", r.id).
					Str("correlation_id", res.CorrelationID).
					Msg("report arrived after the order resolved")
			}
			return
		}

		log.Warn().
			Err(err).
			Str("robot_id", r.id).
			Int("attempt", attempt+1).
			Msg("report failed")

		exp := r.backoff * time.Duration(1<<attempt)
		jitter := time.Duration(rand.Int63n(int64(exp / 2)))
		select {
		case <-time.After(exp + jitter):
		case <-ctx.Done():
			return
		}
	}

	log.Error().
		Str("robot_id", r.id).
		Str("correlation_id", res.CorrelationID).
		Int("attempts", r.attempts).
		Msg("giving up on report")
}
