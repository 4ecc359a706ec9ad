package controlapi

import (
	"errors"

	"github.com/moby/fdbkit/manager/state/store"
)

// Server is the control API gRPC server. It is the façade through which
// bindings, and the ports, segments and agents they reference, are managed.
type Server struct {
	store *store.MemoryStore

	// uniqueBindings rejects a second binding for the same port, segment
	// and agent.
	uniqueBindings bool
}

// New creates a control API server.
func New(opts ...ServerOption) (*Server, error) {
	s := Server{
		uniqueBindings: true,
	}

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}

	if s.store == nil {
		return nil, errors.New("no memory store provided")
	}
	return &s, nil
}

// ServerOption is a functional argument to configure a new server.
type ServerOption func(*Server) error

// WithMemoryStore configures the server's memory store.
func WithMemoryStore(store *store.MemoryStore) ServerOption {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithUniqueBindings configures whether CreateBinding rejects a binding
// whose port, segment and agent are already bound. It is enabled by default.
func WithUniqueBindings(unique bool) ServerOption {
	return func(s *Server) error {
		s.uniqueBindings = unique
		return nil
	}
}
