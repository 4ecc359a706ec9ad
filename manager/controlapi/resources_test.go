package controlapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/testutils"
)

func TestCreatePort(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for _, p := range []*api.Port{
		nil,
		{},
		{MACAddress: "not-a-mac"},
		{MACAddress: "fa:16:3e:00:00:01", IPAddress: "10.0.0.300"},
	} {
		_, err := ts.Client.CreatePort(ctx, &api.CreatePortRequest{Port: p})
		assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))
	}

	r, err := ts.Client.CreatePort(ctx, &api.CreatePortRequest{Port: &api.Port{MACAddress: "fa:16:3e:00:00:01"}})
	require.NoError(t, err)
	assert.NotEmpty(t, r.Port.ID)

	_, err = ts.Client.CreatePort(ctx, &api.CreatePortRequest{Port: &api.Port{ID: r.Port.ID, MACAddress: "fa:16:3e:00:00:02"}})
	assert.Equal(t, codes.AlreadyExists, testutils.ErrorCode(err))

	g, err := ts.Client.GetPort(ctx, &api.GetPortRequest{PortID: r.Port.ID})
	require.NoError(t, err)
	assert.Equal(t, "fa:16:3e:00:00:01", g.Port.MACAddress)

	_, err = ts.Client.GetPort(ctx, &api.GetPortRequest{PortID: "missing"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))

	l, err := ts.Client.ListPorts(ctx, &api.ListPortsRequest{})
	require.NoError(t, err)
	assert.Len(t, l.Ports, 1)
}

func TestCreateSegment(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for _, s := range []*api.Segment{
		nil,
		{NetworkType: "flat", SegmentationID: 1},
		{NetworkType: api.NetworkTypeGRE},
		{NetworkType: api.NetworkTypeVXLAN, SegmentationID: 1 << 24},
	} {
		_, err := ts.Client.CreateSegment(ctx, &api.CreateSegmentRequest{Segment: s})
		assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))
	}

	r, err := ts.Client.CreateSegment(ctx, &api.CreateSegmentRequest{Segment: &api.Segment{
		ID:             "s1",
		NetworkType:    api.NetworkTypeGeneve,
		SegmentationID: 1 << 24,
	}})
	require.NoError(t, err)
	assert.Equal(t, "s1", r.Segment.ID)

	g, err := ts.Client.GetSegment(ctx, &api.GetSegmentRequest{SegmentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, api.NetworkTypeGeneve, g.Segment.NetworkType)

	_, err = ts.Client.GetSegment(ctx, &api.GetSegmentRequest{SegmentID: "missing"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))
	assert.Equal(t, "segment missing could not be found", testutils.ErrorDesc(err))

	_, err = ts.Client.RemoveSegment(ctx, &api.RemoveSegmentRequest{SegmentID: "missing"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))

	rm, err := ts.Client.RemoveSegment(ctx, &api.RemoveSegmentRequest{SegmentID: "s1"})
	require.NoError(t, err)
	assert.Empty(t, rm.Removed)

	l, err := ts.Client.ListSegments(ctx, &api.ListSegmentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, l.Segments)
}

func TestCreateAgent(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for _, a := range []*api.Agent{
		nil,
		{TunnelIP: "192.168.0.1"},
		{Host: "host1"},
		{Host: "host1", TunnelIP: "nope"},
	} {
		_, err := ts.Client.CreateAgent(ctx, &api.CreateAgentRequest{Agent: a})
		assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))
	}

	r, err := ts.Client.CreateAgent(ctx, &api.CreateAgentRequest{Agent: &api.Agent{
		Host:      "host1",
		AgentType: "ovs",
		TunnelIP:  "192.168.0.1",
	}})
	require.NoError(t, err)

	g, err := ts.Client.GetAgent(ctx, &api.GetAgentRequest{AgentID: r.Agent.ID})
	require.NoError(t, err)
	assert.Equal(t, "host1", g.Agent.Host)
	assert.Equal(t, "192.168.0.1", g.Agent.TunnelIP)

	l, err := ts.Client.ListAgents(ctx, &api.ListAgentsRequest{})
	require.NoError(t, err)
	assert.Len(t, l.Agents, 1)

	_, err = ts.Client.RemoveAgent(ctx, &api.RemoveAgentRequest{})
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))

	_, err = ts.Client.RemoveAgent(ctx, &api.RemoveAgentRequest{AgentID: r.Agent.ID})
	require.NoError(t, err)

	_, err = ts.Client.GetAgent(ctx, &api.GetAgentRequest{AgentID: r.Agent.ID})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))
}
