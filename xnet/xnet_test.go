package xnet

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtoAddr(t *testing.T) {
	for _, tc := range []struct {
		in          string
		proto, addr string
		err         bool
	}{
		{in: "unix:///run/fdbd.sock", proto: "unix", addr: "/run/fdbd.sock"},
		{in: "tcp://0.0.0.0:4343", proto: "tcp", addr: "0.0.0.0:4343"},
		{in: "npipe:////./pipe/fdbd", proto: "npipe", addr: "//./pipe/fdbd"},
		{in: "0.0.0.0:4343", err: true},
		{in: "tcp://", err: true},
		{in: "udp://0.0.0.0:53", err: true},
	} {
		proto, addr, err := ParseProtoAddr(tc.in)
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.proto, proto)
		assert.Equal(t, tc.addr, addr)
	}
}

func TestListenAndDial(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets only")
	}
	socket := filepath.Join(t.TempDir(), "fdbd.sock")

	l, err := ListenAddr("unix://" + socket)
	require.NoError(t, err)
	l.Close()

	// A stale socket is replaced.
	l, err = ListenAddr("unix://" + socket)
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err == nil {
			conn.Close()
		}
		accepted <- err
	}()

	conn, err := ContextDialer()(context.Background(), "unix://"+socket)
	require.NoError(t, err)
	conn.Close()
	require.NoError(t, <-accepted)
}
