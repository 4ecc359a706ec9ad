// Package xnet resolves the listen and dial addresses used by the daemons.
// Addresses are written proto://address, as in unix:///run/fdbd.sock or
// tcp://0.0.0.0:4343. On Windows the control socket is a named pipe
// (npipe:////./pipe/fdbd).
package xnet

import (
	"context"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// ParseProtoAddr parses an address as a protocol and address pair.
// If no protocol specified, this function return an error
func ParseProtoAddr(s string) (string, string, error) {
	parts := strings.SplitN(s, "://", 2)
	if len(parts) == 1 {
		return "", "", errors.Errorf("no protocol is specified in '%s'", s)
	}
	if parts[1] == "" {
		return "", "", errors.Errorf("no address is specified in '%s'", s)
	}
	switch parts[0] {
	case "tcp", "unix", "npipe":
	default:
		return "", "", errors.Errorf("unsupported protocol '%s' in '%s'", parts[0], s)
	}
	return parts[0], parts[1], nil
}

// ListenAddr parses a proto://address string and listens on it.
func ListenAddr(s string) (net.Listener, error) {
	proto, addr, err := ParseProtoAddr(s)
	if err != nil {
		return nil, err
	}
	if proto == "unix" || proto == "npipe" {
		return ListenLocal(addr)
	}
	return Listen(proto, addr)
}

// ContextDialer returns a dialer for grpc.WithContextDialer that understands
// proto://address targets. Targets without a protocol are dialed over TCP.
func ContextDialer() func(ctx context.Context, target string) (net.Conn, error) {
	return func(ctx context.Context, target string) (net.Conn, error) {
		proto, addr, err := ParseProtoAddr(target)
		if err != nil {
			proto, addr = "tcp", target
		}
		return DialContext(ctx, proto, addr)
	}
}
