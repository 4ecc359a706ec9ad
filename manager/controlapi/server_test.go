package controlapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/manager/state/store"
	"github.com/moby/fdbkit/testutils"
)

var _ api.ControlServer = &Server{}

type testServer struct {
	Server *Server
	Client api.ControlClient
	Store  *store.MemoryStore
}

func newTestServer(t *testing.T, opts ...ServerOption) *testServer {
	ts := &testServer{}

	ts.Store = store.NewMemoryStore(nil)
	t.Cleanup(func() { ts.Store.Close() })

	var err error
	ts.Server, err = New(append([]ServerOption{WithMemoryStore(ts.Store)}, opts...)...)
	require.NoError(t, err)

	conn := testutils.ServeUnix(t, func(s *grpc.Server) {
		api.RegisterControlServer(s, ts.Server)
	})
	ts.Client = api.NewControlClient(conn)
	return ts
}

// populate creates two ports, two segments and two agents.
func (ts *testServer) populate(t *testing.T) {
	ctx := context.Background()
	for _, p := range []*api.Port{
		{ID: "p1", MACAddress: "fa:16:3e:00:00:01", IPAddress: "10.0.0.1"},
		{ID: "p2", MACAddress: "fa:16:3e:00:00:02", IPAddress: "10.0.0.2"},
	} {
		_, err := ts.Client.CreatePort(ctx, &api.CreatePortRequest{Port: p})
		require.NoError(t, err)
	}
	for _, s := range []*api.Segment{
		{ID: "s1", NetworkType: api.NetworkTypeVXLAN, SegmentationID: 100},
		{ID: "s2", NetworkType: api.NetworkTypeGRE, SegmentationID: 200},
	} {
		_, err := ts.Client.CreateSegment(ctx, &api.CreateSegmentRequest{Segment: s})
		require.NoError(t, err)
	}
	for _, a := range []*api.Agent{
		{ID: "a1", Host: "host1", TunnelIP: "192.168.0.1"},
		{ID: "a2", Host: "host2", TunnelIP: "192.168.0.2"},
	} {
		_, err := ts.Client.CreateAgent(ctx, &api.CreateAgentRequest{Agent: a})
		require.NoError(t, err)
	}
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	s, err := New(WithMemoryStore(store.NewMemoryStore(nil)))
	require.NoError(t, err)
	assert.True(t, s.uniqueBindings)

	s, err = New(WithMemoryStore(store.NewMemoryStore(nil)), WithUniqueBindings(false))
	require.NoError(t, err)
	assert.False(t, s.uniqueBindings)
}
