package connectionbroker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/remotes"
)

func TestSelectObservesOnClose(t *testing.T) {
	r := remotes.NewRemotes("unix:///nonexistent/manager.sock")
	b := New(r, grpc.WithInsecure())
	assert.Equal(t, r, b.Remotes())

	// Dialing is lazy, so selection succeeds without a listener.
	conn, err := b.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unix:///nonexistent/manager.sock", conn.Peer())

	before := r.Weights()[conn.Peer()]
	require.NoError(t, conn.Close(false))
	assert.Less(t, r.Weights()[conn.Peer()], before)

	conn, err = b.Select(context.Background())
	require.NoError(t, err)
	before = r.Weights()[conn.Peer()]
	require.NoError(t, conn.Close(true))
	assert.Greater(t, r.Weights()[conn.Peer()], before)
}

func TestSelectNoManagers(t *testing.T) {
	b := New(remotes.NewRemotes(), grpc.WithInsecure())
	_, err := b.Select(context.Background())
	assert.Error(t, err)
}
