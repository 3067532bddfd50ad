package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const methodQuote = "/grocer.Pricing/Quote"

// PricingClient asks the pricing service for an order total.
type PricingClient interface {
	Quote(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteReply, error)
}

type pricingClient struct {
	cc grpc.ClientConnInterface
}

func NewPricingClient(cc grpc.ClientConnInterface) PricingClient {
	return &pricingClient{cc: cc}
}

func (c *pricingClient) Quote(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteReply, error) {
	out := new(QuoteReply)
	if err := c.cc.Invoke(ctx, methodQuote, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type PricingServer interface {
	Quote(ctx context.Context, in *QuoteRequest) (*QuoteReply, error)
}

func RegisterPricingServer(s grpc.ServiceRegistrar, srv PricingServer) {
	s.RegisterService(&pricingServiceDesc, srv)
}

func quoteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodQuote}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServer).Quote(ctx, req.(*QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var pricingServiceDesc = grpc.ServiceDesc{
	ServiceName: "grocer.Pricing",
	HandlerType: (*PricingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Quote", Handler: quoteHandler},
	},
	Streams: []grpc.StreamDesc{},
}
