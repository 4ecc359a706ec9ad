//go:build windows
// +build windows

package xnet

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// Listen Wrapper for net.Listen and Windows named pipe
func Listen(proto string, addr string) (net.Listener, error) {
	if proto == "npipe" {
		return winio.ListenPipe(addr, nil)
	}
	return net.Listen(proto, addr)
}

// DialContext Wrapper for net.Dialer.DialContext and Windows named pipe
// (winio.DialPipeContext)
func DialContext(ctx context.Context, proto string, addr string) (net.Conn, error) {
	if proto == "npipe" {
		return winio.DialPipeContext(ctx, addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, proto, addr)
}

// ListenLocal opens a local socket for control communication
func ListenLocal(socket string) (net.Listener, error) {
	// on windows, our socket is actually a named pipe
	return winio.ListenPipe(socket, nil)
}
