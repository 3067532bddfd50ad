// Package broker carries the two fanout streams of the system: aisle tasks
// going out to the robot fleet, and analytics events going out to whoever
// listens. Both are transient traffic; queues are server-named, exclusive,
// and vanish with their consumer.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/grocer/internal/core/domain"
)

type bus struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func dialBus(url, exchange string) (*bus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "fanout", false, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &bus{conn: conn, ch: ch, exchange: exchange}, nil
}

func (b *bus) close() error {
	b.ch.Close()
	return b.conn.Close()
}

func (b *bus) publishJSON(ctx context.Context, kind string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}

	return b.ch.PublishWithContext(ctx, b.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Type:        kind,
		Body:        body,
	})
}

// subscribe binds a fresh server-named queue to the exchange so this
// consumer sees every message published while it is alive.
func (b *bus) subscribe() (<-chan amqp.Delivery, error) {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := b.ch.QueueBind(q.Name, "", b.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := b.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return msgs, nil
}

// TaskBus broadcasts aisle tasks to the robot fleet.
type TaskBus struct {
	bus *bus
}

func NewTaskBus(url, exchange string) (*TaskBus, error) {
	b, err := dialBus(url, exchange)
	if err != nil {
		return nil, err
	}
	return &TaskBus{bus: b}, nil
}

func (t *TaskBus) PublishTask(ctx context.Context, task domain.AisleTask) error {
	return t.bus.publishJSON(ctx, string(task.Kind), task)
}

// Tasks decodes the broadcast into typed tasks until ctx ends or the
// channel dies. Undecodable payloads are logged and skipped.
func (t *TaskBus) Tasks(ctx context.Context) (<-chan domain.AisleTask, error) {
	msgs, err := t.bus.subscribe()
	if err != nil {
		return nil, err
	}

	out := make(chan domain.AisleTask)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var task domain.AisleTask
				if err := json.Unmarshal(msg.Body, &task); err != nil {
					log.Error().Err(err).Str("type", msg.Type).Msg("bad task payload")
					continue
				}
				select {
				case out <- task:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (t *TaskBus) Close() error {
	return t.bus.close()
}

// EventBus carries analytics events.
type EventBus struct {
	bus *bus
}

func NewEventBus(url, exchange string) (*EventBus, error) {
	b, err := dialBus(url, exchange)
	if err != nil {
		return nil, err
	}
	return &EventBus{bus: b}, nil
}

func (e *EventBus) PublishEvent(ctx context.Context, ev domain.Event) error {
	return e.bus.publishJSON(ctx, string(ev.Type), ev)
}

// Events decodes the analytics stream until ctx ends or the channel dies.
func (e *EventBus) Events(ctx context.Context) (<-chan domain.Event, error) {
	msgs, err := e.bus.subscribe()
	if err != nil {
		return nil, err
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.Event
				if err := json.Unmarshal(msg.Body, &ev); err != nil {
					log.Error().Err(err).Str("type", msg.Type).Msg("bad event payload")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (e *EventBus) Close() error {
	return e.bus.close()
}
