package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const methodReport = "/grocer.RobotReports/Report"

// RobotReportsClient delivers aisle results from robots to the coordinator.
type RobotReportsClient interface {
	Report(ctx context.Context, in *AisleReport, opts ...grpc.CallOption) (*ReportAck, error)
}

type robotReportsClient struct {
	cc grpc.ClientConnInterface
}

func NewRobotReportsClient(cc grpc.ClientConnInterface) RobotReportsClient {
	return &robotReportsClient{cc: cc}
}

func (c *robotReportsClient) Report(ctx context.Context, in *AisleReport, opts ...grpc.CallOption) (*ReportAck, error) {
	out := new(ReportAck)
	if err := c.cc.Invoke(ctx, methodReport, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type RobotReportsServer interface {
	Report(ctx context.Context, in *AisleReport) (*ReportAck, error)
}

func RegisterRobotReportsServer(s grpc.ServiceRegistrar, srv RobotReportsServer) {
	s.RegisterService(&robotReportsServiceDesc, srv)
}

func reportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AisleReport)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RobotReportsServer).Report(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReport}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RobotReportsServer).Report(ctx, req.(*AisleReport))
	}
	return interceptor(ctx, in, info, handler)
}

var robotReportsServiceDesc = grpc.ServiceDesc{
	ServiceName: "grocer.RobotReports",
	HandlerType: (*RobotReportsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Report", Handler: reportHandler},
	},
	Streams: []grpc.StreamDesc{},
}
