//go:build !windows
// +build !windows

package xnet

import (
	"context"
	"net"
	"os"

	"github.com/pkg/errors"
)

// Listen Wrapper for net.Listen
func Listen(proto string, addr string) (net.Listener, error) {
	return net.Listen(proto, addr)
}

// DialContext Wrapper for net.Dialer.DialContext
func DialContext(ctx context.Context, proto string, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, proto, addr)
}

// ListenLocal opens a local socket for control communication. A stale
// socket file left by a previous run is removed first.
func ListenLocal(socket string) (net.Listener, error) {
	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to remove stale socket %s", socket)
	}
	l, err := net.Listen("unix", socket)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(socket, 0o660); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}
