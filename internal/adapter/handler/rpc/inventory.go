package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const methodProcessOrder = "/grocer.Inventory/ProcessOrder"

// InventoryClient places orders with the coordinator.
type InventoryClient interface {
	ProcessOrder(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*OrderReply, error)
}

type inventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) InventoryClient {
	return &inventoryClient{cc: cc}
}

func (c *inventoryClient) ProcessOrder(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*OrderReply, error) {
	out := new(OrderReply)
	if err := c.cc.Invoke(ctx, methodProcessOrder, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// InventoryServer is implemented by the coordinator's gRPC handler.
type InventoryServer interface {
	ProcessOrder(ctx context.Context, in *OrderRequest) (*OrderReply, error)
}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

func processOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(OrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).ProcessOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodProcessOrder}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InventoryServer).ProcessOrder(ctx, req.(*OrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: "grocer.Inventory",
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessOrder", Handler: processOrderHandler},
	},
	Streams: []grpc.StreamDesc{},
}
