package port

import (
	"context"

	"github.com/rl1809/grocer/internal/core/domain"
)

type ResultReporter interface {
	// Report delivers an aisle result to the coordinator; accepted is false
	// when the barrier already moved on (late or duplicate report)
	Report(ctx context.Context, res domain.AisleResult) (accepted bool, err error)
}
