package controlapi

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/manager/state/store"
	"github.com/moby/fdbkit/testutils"
)

func createBinding(t *testing.T, ts *testServer, port, segment, agent string) *api.Binding {
	r, err := ts.Client.CreateBinding(context.Background(), &api.CreateBindingRequest{
		PortID:    port,
		SegmentID: segment,
		AgentID:   agent,
	})
	require.NoError(t, err)
	require.NotNil(t, r.Binding)
	return r.Binding
}

func TestCreateBinding(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	_, err := ts.Client.CreateBinding(context.Background(), &api.CreateBindingRequest{})
	assert.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))

	b := createBinding(t, ts, "p1", "s1", "a1")
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "p1", b.PortID)
	assert.Equal(t, "s1", b.SegmentID)
	assert.Equal(t, "a1", b.AgentID)
	assert.NotZero(t, b.Meta.Version.Index)

	ts.Store.View(func(tx store.ReadTx) {
		stored := store.GetBinding(tx, b.ID)
		require.NotNil(t, stored)
		assert.Equal(t, b.PortID, stored.PortID)
	})
}

func TestCreateBindingNotFoundOrder(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	for _, tc := range []struct {
		port, segment, agent string
		expected             string
	}{
		{"missing", "missing", "missing", "port missing could not be found"},
		{"p1", "missing", "missing", "segment missing could not be found"},
		{"p1", "s1", "missing", "agent missing could not be found"},
	} {
		_, err := ts.Client.CreateBinding(context.Background(), &api.CreateBindingRequest{
			PortID:    tc.port,
			SegmentID: tc.segment,
			AgentID:   tc.agent,
		})
		require.Error(t, err)
		assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))
		assert.Equal(t, tc.expected, testutils.ErrorDesc(err))
	}

	r, err := ts.Client.ListBindings(context.Background(), &api.ListBindingsRequest{})
	require.NoError(t, err)
	assert.Empty(t, r.Bindings)
}

func TestCreateBindingConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	createBinding(t, ts, "p1", "s1", "a1")
	_, err := ts.Client.CreateBinding(context.Background(), &api.CreateBindingRequest{
		PortID:    "p1",
		SegmentID: "s1",
		AgentID:   "a1",
	})
	assert.Error(t, err)
	assert.Equal(t, codes.AlreadyExists, testutils.ErrorCode(err))

	// A different agent for the same port and segment is a separate binding.
	createBinding(t, ts, "p1", "s1", "a2")
}

func TestCreateBindingDuplicatesAllowed(t *testing.T) {
	ts := newTestServer(t, WithUniqueBindings(false))
	ts.populate(t)

	b1 := createBinding(t, ts, "p1", "s1", "a1")
	b2 := createBinding(t, ts, "p1", "s1", "a1")
	assert.NotEqual(t, b1.ID, b2.ID)

	r, err := ts.Client.ListBindings(context.Background(), &api.ListBindingsRequest{})
	require.NoError(t, err)
	assert.Len(t, r.Bindings, 2)
}

func TestCreateBindingCanceled(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ts.Server.CreateBinding(ctx, &api.CreateBindingRequest{
		PortID:    "p1",
		SegmentID: "s1",
		AgentID:   "a1",
	})
	assert.Error(t, err)
	assert.Equal(t, codes.Canceled, testutils.ErrorCode(err))

	ts.Store.View(func(tx store.ReadTx) {
		bindings, err := store.FindBindings(tx, store.All)
		require.NoError(t, err)
		assert.Empty(t, bindings)
	})
}

func TestGetBinding(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	_, err := ts.Client.GetBinding(context.Background(), &api.GetBindingRequest{})
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))

	_, err = ts.Client.GetBinding(context.Background(), &api.GetBindingRequest{BindingID: "invalid"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))
	assert.Equal(t, "forwarding database entry invalid could not be found", testutils.ErrorDesc(err))

	b := createBinding(t, ts, "p2", "s2", "a2")
	r, err := ts.Client.GetBinding(context.Background(), &api.GetBindingRequest{BindingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, r.Binding.ID)
	assert.Equal(t, "p2", r.Binding.PortID)
}

func TestRemoveBinding(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	_, err := ts.Client.RemoveBinding(context.Background(), &api.RemoveBindingRequest{})
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))

	_, err = ts.Client.RemoveBinding(context.Background(), &api.RemoveBindingRequest{BindingID: "invalid"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))

	b := createBinding(t, ts, "p1", "s1", "a1")
	_, err = ts.Client.RemoveBinding(context.Background(), &api.RemoveBindingRequest{BindingID: b.ID})
	require.NoError(t, err)

	_, err = ts.Client.RemoveBinding(context.Background(), &api.RemoveBindingRequest{BindingID: b.ID})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))

	// The triple can be bound again once released.
	createBinding(t, ts, "p1", "s1", "a1")
}

func TestListBindings(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)

	var ids []string
	for _, port := range []string{"p1", "p2"} {
		for _, segment := range []string{"s1", "s2"} {
			for _, agent := range []string{"a1", "a2"} {
				ids = append(ids, createBinding(t, ts, port, segment, agent).ID)
			}
		}
	}

	list := func(filters *api.BindingFilters, opts *api.ListOptions) []*api.Binding {
		r, err := ts.Client.ListBindings(context.Background(), &api.ListBindingsRequest{
			Filters: filters,
			Options: opts,
		})
		require.NoError(t, err)
		return r.Bindings
	}

	assert.Len(t, list(nil, nil), 8)
	assert.Len(t, list(&api.BindingFilters{PortID: "p1"}, nil), 4)
	assert.Len(t, list(&api.BindingFilters{SegmentID: "s2", AgentID: "a1"}, nil), 2)
	assert.Len(t, list(&api.BindingFilters{PortID: "p2", SegmentID: "s1", AgentID: "a2"}, nil), 1)
	assert.Empty(t, list(&api.BindingFilters{PortID: "missing"}, nil))

	for _, b := range list(&api.BindingFilters{AgentID: "a2"}, nil) {
		assert.Equal(t, "a2", b.AgentID)
	}

	// Walk every binding forwards, three at a time.
	var (
		walked []string
		marker string
	)
	for {
		page := list(nil, &api.ListOptions{Limit: 3, Marker: marker})
		if len(page) == 0 {
			break
		}
		assert.True(t, len(page) <= 3)
		for _, b := range page {
			walked = append(walked, b.ID)
		}
		marker = page[len(page)-1].ID
	}
	assert.Len(t, walked, len(ids))
	assert.ElementsMatch(t, ids, walked)
	assert.IsIncreasing(t, walked)

	// A reverse page before the last ID holds the bindings just before it.
	last := walked[len(walked)-1]
	page := list(nil, &api.ListOptions{Limit: 2, Marker: last, PageReverse: true})
	require.Len(t, page, 2)
	assert.Equal(t, walked[len(walked)-3], page[0].ID)
	assert.Equal(t, walked[len(walked)-2], page[1].ID)

	_, err := ts.Client.ListBindings(context.Background(), &api.ListBindingsRequest{
		Options: &api.ListOptions{Limit: -1},
	})
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))
}

func TestRemoveCascades(t *testing.T) {
	for _, tc := range []struct {
		name     string
		remove   func(ts *testServer) ([]*api.Binding, error)
		expected int
	}{
		{
			name: "port",
			remove: func(ts *testServer) ([]*api.Binding, error) {
				r, err := ts.Client.RemovePort(context.Background(), &api.RemovePortRequest{PortID: "p1"})
				if err != nil {
					return nil, err
				}
				return r.Removed, nil
			},
			expected: 4,
		},
		{
			name: "segment",
			remove: func(ts *testServer) ([]*api.Binding, error) {
				r, err := ts.Client.RemoveSegment(context.Background(), &api.RemoveSegmentRequest{SegmentID: "s2"})
				if err != nil {
					return nil, err
				}
				return r.Removed, nil
			},
			expected: 4,
		},
		{
			name: "agent",
			remove: func(ts *testServer) ([]*api.Binding, error) {
				r, err := ts.Client.RemoveAgent(context.Background(), &api.RemoveAgentRequest{AgentID: "a1"})
				if err != nil {
					return nil, err
				}
				return r.Removed, nil
			},
			expected: 4,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.populate(t)
			for _, port := range []string{"p1", "p2"} {
				for _, segment := range []string{"s1", "s2"} {
					for _, agent := range []string{"a1", "a2"} {
						createBinding(t, ts, port, segment, agent)
					}
				}
			}

			removed, err := tc.remove(ts)
			require.NoError(t, err)
			assert.Len(t, removed, tc.expected)

			r, err := ts.Client.ListBindings(context.Background(), &api.ListBindingsRequest{})
			require.NoError(t, err)
			assert.Len(t, r.Bindings, 8-tc.expected, fmt.Sprintf("after removing a %s", tc.name))
			for _, b := range removed {
				for _, left := range r.Bindings {
					assert.NotEqual(t, b.ID, left.ID)
				}
			}
		})
	}
}

func TestListEntries(t *testing.T) {
	ts := newTestServer(t)
	ts.populate(t)
	ctx := context.Background()

	_, err := ts.Client.ListEntries(ctx, &api.ListEntriesRequest{})
	assert.Equal(t, codes.InvalidArgument, testutils.ErrorCode(err))
	_, err = ts.Client.ListEntries(ctx, &api.ListEntriesRequest{SegmentID: "missing"})
	assert.Equal(t, codes.NotFound, testutils.ErrorCode(err))

	b1 := createBinding(t, ts, "p1", "s1", "a1")
	createBinding(t, ts, "p2", "s2", "a2")

	r, err := ts.Client.ListEntries(ctx, &api.ListEntriesRequest{SegmentID: "s1"})
	require.NoError(t, err)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, b1.ID, r.Entries[0].Binding.ID)
	assert.Equal(t, "fa:16:3e:00:00:01", r.Entries[0].Location.MACAddress)
	assert.Equal(t, "192.168.0.1", r.Entries[0].Location.TunnelIP)
	assert.Equal(t, uint32(100), r.Entries[0].Location.SegmentationID)
	assert.GreaterOrEqual(t, r.Version.Index, b1.Meta.Version.Index)
}
