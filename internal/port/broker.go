package port

import (
	"context"

	"github.com/rl1809/grocer/internal/core/domain"
)

type TaskPublisher interface {
	// PublishTask broadcasts an aisle task to every robot on the shared channel
	PublishTask(ctx context.Context, task domain.AisleTask) error
}

type EventPublisher interface {
	// PublishEvent emits an analytics event; failures must not fail the request
	PublishEvent(ctx context.Context, ev domain.Event) error
}
