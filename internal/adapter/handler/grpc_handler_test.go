package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/adapter/storage"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
)

// loopbackFleet answers every published task immediately, standing in for
// the broker and the robots.
type loopbackFleet struct {
	agg *service.ReplyAggregator
}

func (f *loopbackFleet) PublishTask(ctx context.Context, task domain.AisleTask) error {
	go f.agg.Submit(domain.AisleResult{
		CorrelationID: task.CorrelationID,
		Aisle:         task.Aisle,
		Status:        domain.TaskStatusOK,
		Lines:         task.Lines,
		RobotID:       "robot-loopback",
	})
	return nil
}

func newGRPCHarness() (*GRPCHandler, *service.ReplyAggregator) {
	catalog := domain.DefaultCatalog()
	ledger := storage.NewMemoryLedger(catalog, 100)
	agg := service.NewReplyAggregator(2 * time.Second)
	dispatcher := service.NewTaskDispatcher(catalog, &loopbackFleet{agg: agg}, agg)
	book := service.NewPricebook(storage.NewStaticPriceBook())
	coordinator := service.NewOrderCoordinator(catalog, ledger, dispatcher, book)
	return NewGRPCHandler(coordinator, agg), agg
}

func TestGRPCProcessOrder_Success(t *testing.T) {
	// Setup
	h, _ := newGRPCHarness()

	// Test
	reply, err := h.ProcessOrder(context.Background(), &rpc.OrderRequest{
		Kind:      "FETCH",
		Requester: "customer-1",
		Lines:     []rpc.Line{{ItemID: "bagels", Quantity: 2}},
	})

	// Verify
	require.NoError(t, err)
	assert.NotEmpty(t, reply.OrderID)
	require.Len(t, reply.Lines, 1)
	assert.Equal(t, 2, reply.Lines[0].Fulfilled)
	assert.Equal(t, int64(798), reply.TotalCents)
	assert.True(t, reply.CostKnown)
	assert.False(t, reply.Partial)
}

func TestGRPCProcessOrder_InvalidArgument(t *testing.T) {
	// Setup
	h, _ := newGRPCHarness()

	// Test
	_, err := h.ProcessOrder(context.Background(), &rpc.OrderRequest{
		Kind:      "FETCH",
		Requester: "customer-1",
	})

	// Verify
	require.Error(t, err)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, s.Code())
	assert.Contains(t, s.Message(), "invalid order")
}

func TestGRPCReport_AcceptedExactlyOnce(t *testing.T) {
	// Setup: arm the barrier for one task by hand.
	h, agg := newGRPCHarness()
	task := domain.AisleTask{
		CorrelationID: "corr-1",
		OrderID:       "order-1",
		Kind:          domain.OrderKindFetch,
		Aisle:         domain.AisleBread,
		Lines:         []domain.Line{{ItemID: "bagels", Quantity: 2}},
	}
	agg.Register("order-1", []domain.AisleTask{task})

	report := &rpc.AisleReport{
		CorrelationID: "corr-1",
		Aisle:         "bread",
		Status:        "OK",
		Lines:         []rpc.Line{{ItemID: "bagels", Quantity: 2}},
		RobotID:       "robot-1",
	}

	// Test
	first, err := h.Report(context.Background(), report)
	require.NoError(t, err)
	second, err := h.Report(context.Background(), report)
	require.NoError(t, err)

	// Verify: the duplicate is acknowledged but not accepted.
	assert.True(t, first.Accepted)
	assert.False(t, second.Accepted)
}

func TestGRPCReport_UnknownCorrelationID(t *testing.T) {
	h, _ := newGRPCHarness()

	ack, err := h.Report(context.Background(), &rpc.AisleReport{
		CorrelationID: "never-registered",
		Aisle:         "bread",
		Status:        "OK",
	})

	require.NoError(t, err)
	assert.False(t, ack.Accepted)
}
