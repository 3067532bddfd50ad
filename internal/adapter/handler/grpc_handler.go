package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
)

// GRPCHandler exposes the coordinator on the wire: orders in from the
// gateway, task results back from the robot fleet.
type GRPCHandler struct {
	coordinator *service.OrderCoordinator
	aggregator  *service.ReplyAggregator
}

func NewGRPCHandler(coordinator *service.OrderCoordinator, aggregator *service.ReplyAggregator) *GRPCHandler {
	return &GRPCHandler{
		coordinator: coordinator,
		aggregator:  aggregator,
	}
}

func (h *GRPCHandler) ProcessOrder(ctx context.Context, req *rpc.OrderRequest) (*rpc.OrderReply, error) {
	order := domain.Order{
		Kind:      domain.OrderKind(req.Kind),
		Requester: req.Requester,
		Lines:     make([]domain.Line, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		order.Lines = append(order.Lines, domain.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	receipt, err := h.coordinator.Process(ctx, order)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, "order processing failed")
	}

	reply := &rpc.OrderReply{
		OrderID:    receipt.OrderID,
		Lines:      make([]rpc.LineResult, 0, len(receipt.Lines)),
		TotalCents: receipt.TotalCents,
		CostKnown:  receipt.CostKnown,
		Partial:    receipt.Partial,
	}
	for _, lr := range receipt.Lines {
		reply.Lines = append(reply.Lines, rpc.LineResult{
			ItemID:    lr.ItemID,
			Requested: lr.Requested,
			Fulfilled: lr.Fulfilled,
			Err:       lr.Err,
		})
	}
	return reply, nil
}

// Report feeds a robot's result to the reply barrier. Late and duplicate
// reports are acknowledged with Accepted=false rather than an error; the
// robot has nothing to retry at that point.
func (h *GRPCHandler) Report(ctx context.Context, req *rpc.AisleReport) (*rpc.ReportAck, error) {
	res := domain.AisleResult{
		CorrelationID: req.CorrelationID,
		Aisle:         domain.Aisle(req.Aisle),
		Status:        domain.TaskStatus(req.Status),
		Lines:         make([]domain.Line, 0, len(req.Lines)),
		RobotID:       req.RobotID,
	}
	for _, l := range req.Lines {
		res.Lines = append(res.Lines, domain.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	return &rpc.ReportAck{Accepted: h.aggregator.Submit(res)}, nil
}
