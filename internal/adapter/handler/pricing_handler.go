package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
)

// PricingHandler serves quote requests for the pricing binary.
type PricingHandler struct {
	book *service.Pricebook
}

func NewPricingHandler(book *service.Pricebook) *PricingHandler {
	return &PricingHandler{book: book}
}

func (h *PricingHandler) Quote(ctx context.Context, req *rpc.QuoteRequest) (*rpc.QuoteReply, error) {
	lines := make([]domain.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	total, unknown, err := h.book.Quote(ctx, lines)
	if err != nil {
		return nil, status.Error(codes.Internal, "quote failed")
	}

	return &rpc.QuoteReply{TotalCents: total, Unknown: unknown}, nil
}
