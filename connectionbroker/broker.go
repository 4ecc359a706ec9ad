// Package connectionbroker is a layer on top of remotes that returns
// a gRPC connection to a manager.
package connectionbroker

import (
	"context"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"

	"github.com/moby/fdbkit/remotes"
	"github.com/moby/fdbkit/xnet"
)

// Broker is a simple connection broker. It returns a fresh connection to a
// manager selected with weighted randomization.
type Broker struct {
	remotes            remotes.Remotes
	defaultDialOptions []grpc.DialOption
}

// New creates a new connection broker.
func New(remotes remotes.Remotes, opts ...grpc.DialOption) *Broker {
	return &Broker{
		remotes:            remotes,
		defaultDialOptions: opts,
	}
}

// Select chooses a manager from the remotes, and returns a connection to it.
// Manager addresses are proto://address strings as accepted by
// xnet.ParseProtoAddr; a bare host:port is dialed over TCP.
func (b *Broker) Select(ctx context.Context, dialOpts ...grpc.DialOption) (*Conn, error) {
	peer, err := b.remotes.Select()
	if err != nil {
		return nil, err
	}

	// Adding the default dial options
	dialOpts = append(dialOpts, b.defaultDialOptions...)
	dialOpts = append(dialOpts,
		grpc.WithUnaryInterceptor(grpc_prometheus.UnaryClientInterceptor),
		grpc.WithStreamInterceptor(grpc_prometheus.StreamClientInterceptor),
		grpc.WithContextDialer(xnet.ContextDialer()))

	// passthrough hands the address to the dialer untouched.
	cc, err := grpc.DialContext(ctx, "passthrough:///"+peer, dialOpts...)
	if err != nil {
		b.remotes.ObserveIfExists(peer, -remotes.DefaultObservationWeight)
		return nil, err
	}

	return &Conn{
		ClientConn: cc,
		remotes:    b.remotes,
		peer:       peer,
	}, nil
}

// Remotes returns the remotes interface used by the broker, so the caller
// can make observations or see weights directly.
func (b *Broker) Remotes() remotes.Remotes {
	return b.remotes
}

// Conn is a wrapper around a gRPC client connection.
type Conn struct {
	*grpc.ClientConn
	remotes remotes.Remotes
	peer    string
}

// Peer returns the manager address of this Conn.
func (c *Conn) Peer() string {
	return c.peer
}

// Close closes the client connection. It also records a positive experience
// with the manager if success is true, otherwise it records a negative
// experience.
func (c *Conn) Close(success bool) error {
	if success {
		c.remotes.ObserveIfExists(c.peer, remotes.DefaultObservationWeight)
	} else {
		c.remotes.ObserveIfExists(c.peer, -remotes.DefaultObservationWeight)
	}

	return c.ClientConn.Close()
}
