// Package client adapts the wire-level gRPC stubs to the ports the core
// services consume.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/core/domain"
)

// Pricing satisfies port.Pricer over the pricing service's gRPC API.
type Pricing struct {
	rpc rpc.PricingClient
}

func NewPricing(cc grpc.ClientConnInterface) *Pricing {
	return &Pricing{rpc: rpc.NewPricingClient(cc)}
}

func (p *Pricing) Quote(ctx context.Context, lines []domain.Line) (int64, []string, error) {
	req := &rpc.QuoteRequest{Lines: make([]rpc.Line, 0, len(lines))}
	for _, l := range lines {
		req.Lines = append(req.Lines, rpc.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	reply, err := p.rpc.Quote(ctx, req)
	if err != nil {
		return 0, nil, fmt.Errorf("pricing quote: %w", err)
	}
	return reply.TotalCents, reply.Unknown, nil
}

// Reporter satisfies port.ResultReporter over the coordinator's report API.
type Reporter struct {
	rpc rpc.RobotReportsClient
}

func NewReporter(cc grpc.ClientConnInterface) *Reporter {
	return &Reporter{rpc: rpc.NewRobotReportsClient(cc)}
}

func (r *Reporter) Report(ctx context.Context, res domain.AisleResult) (bool, error) {
	req := &rpc.AisleReport{
		CorrelationID: res.CorrelationID,
		Aisle:         string(res.Aisle),
		Status:        string(res.Status),
		Lines:         make([]rpc.Line, 0, len(res.Lines)),
		RobotID:       res.RobotID,
	}
	for _, l := range res.Lines {
		req.Lines = append(req.Lines, rpc.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	ack, err := r.rpc.Report(ctx, req)
	if err != nil {
		return false, fmt.Errorf("report result: %w", err)
	}
	return ack.Accepted, nil
}
