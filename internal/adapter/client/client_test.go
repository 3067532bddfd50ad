package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/core/domain"
)

type fakePricingRPC struct {
	got   *rpc.QuoteRequest
	reply *rpc.QuoteReply
}

func (f *fakePricingRPC) Quote(ctx context.Context, in *rpc.QuoteRequest, opts ...grpc.CallOption) (*rpc.QuoteReply, error) {
	f.got = in
	return f.reply, nil
}

type fakeReportsRPC struct {
	got *rpc.AisleReport
	ack *rpc.ReportAck
}

func (f *fakeReportsRPC) Report(ctx context.Context, in *rpc.AisleReport, opts ...grpc.CallOption) (*rpc.ReportAck, error) {
	f.got = in
	return f.ack, nil
}

func TestPricing_MapsLines(t *testing.T) {
	fake := &fakePricingRPC{reply: &rpc.QuoteReply{TotalCents: 1257, Unknown: []string{"caviar"}}}
	pricing := &Pricing{rpc: fake}

	total, unknown, err := pricing.Quote(context.Background(), []domain.Line{
		{ItemID: "bagels", Quantity: 2},
		{ItemID: "caviar", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1257), total)
	assert.Equal(t, []string{"caviar"}, unknown)
	require.Len(t, fake.got.Lines, 2)
	assert.Equal(t, rpc.Line{ItemID: "bagels", Quantity: 2}, fake.got.Lines[0])
}

func TestReporter_MapsResult(t *testing.T) {
	fake := &fakeReportsRPC{ack: &rpc.ReportAck{Accepted: true}}
	reporter := &Reporter{rpc: fake}

	accepted, err := reporter.Report(context.Background(), domain.AisleResult{
		CorrelationID: "corr-1",
		Aisle:         domain.AisleBread,
		Status:        domain.TaskStatusOK,
		Lines:         []domain.Line{{ItemID: "bagels", Quantity: 2}},
		RobotID:       "robot-1",
	})

	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "corr-1", fake.got.CorrelationID)
	assert.Equal(t, "bread", fake.got.Aisle)
	assert.Equal(t, "OK", fake.got.Status)
	assert.Equal(t, "robot-1", fake.got.RobotID)
}
