package controlapi

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/resolver"
	"github.com/moby/fdbkit/manager/state/store"
)

// CreateBinding records that a port on a segment is reachable through an
// agent, and returns the new binding.
//   - Returns `InvalidArgument` if an identifier is missing.
//   - Returns `NotFound` naming the first of port, segment and agent that
//     does not exist.
//   - Returns `AlreadyExists` if the triple is already bound and unique
//     bindings are enforced.
//
// Agents hosting the segment are notified after the binding is committed.
// Notification never delays or fails the request.
func (s *Server) CreateBinding(ctx context.Context, request *api.CreateBindingRequest) (*api.CreateBindingResponse, error) {
	if request.PortID == "" || request.SegmentID == "" || request.AgentID == "" {
		return nil, errdefs.ErrInvalidArgument("port, segment and agent must be provided")
	}

	b := &api.Binding{
		ID:        identity.NewUUID(),
		PortID:    request.PortID,
		SegmentID: request.SegmentID,
		AgentID:   request.AgentID,
	}

	err := s.store.Update(func(tx store.Tx) error {
		if _, err := resolver.Resolve(tx, b.PortID, b.SegmentID, b.AgentID); err != nil {
			return err
		}

		if s.uniqueBindings {
			existing, err := store.FindBindings(tx, store.ByTriple(b.PortID, b.SegmentID, b.AgentID))
			if err != nil {
				return err
			}
			if len(existing) != 0 {
				return errdefs.ErrConflict("port %s is already bound on segment %s through agent %s by %s",
					b.PortID, b.SegmentID, b.AgentID, existing[0].ID)
			}
		}

		// Last chance to give up before the binding becomes visible.
		if err := contextError(ctx); err != nil {
			return err
		}
		return store.CreateBinding(tx, b)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	log.G(ctx).WithFields(logrus.Fields{
		"binding.id": b.ID,
		"port.id":    b.PortID,
		"segment.id": b.SegmentID,
		"agent.id":   b.AgentID,
	}).Debug("binding created")

	return &api.CreateBindingResponse{
		Binding: b,
	}, nil
}

// RemoveBinding removes a binding referenced by BindingID.
//   - Returns `InvalidArgument` if BindingID is not provided.
//   - Returns `NotFound` if the binding is not found.
func (s *Server) RemoveBinding(ctx context.Context, request *api.RemoveBindingRequest) (*api.RemoveBindingResponse, error) {
	if request.BindingID == "" {
		return nil, errdefs.ErrInvalidArgument("binding id must be provided")
	}

	err := s.store.Update(func(tx store.Tx) error {
		if err := contextError(ctx); err != nil {
			return err
		}
		return store.DeleteBinding(tx, request.BindingID)
	})
	if err != nil {
		if err == store.ErrNotExist {
			return nil, errdefs.ErrEntryNotFound(request.BindingID)
		}
		return nil, translateError(ctx, err)
	}

	log.G(ctx).WithField("binding.id", request.BindingID).Debug("binding removed")
	return &api.RemoveBindingResponse{}, nil
}

// GetBinding returns a binding given a BindingID.
//   - Returns `InvalidArgument` if BindingID is not provided.
//   - Returns `NotFound` if the binding is not found.
func (s *Server) GetBinding(ctx context.Context, request *api.GetBindingRequest) (*api.GetBindingResponse, error) {
	if request.BindingID == "" {
		return nil, errdefs.ErrInvalidArgument("binding id must be provided")
	}

	var b *api.Binding
	s.store.View(func(tx store.ReadTx) {
		b = store.GetBinding(tx, request.BindingID)
	})
	if b == nil {
		return nil, errdefs.ErrEntryNotFound(request.BindingID)
	}
	return &api.GetBindingResponse{
		Binding: b,
	}, nil
}

// ListBindings returns one page of bindings, ordered by ID, matching every
// filter provided.
//   - Returns `InvalidArgument` if the limit is negative.
func (s *Server) ListBindings(ctx context.Context, request *api.ListBindingsRequest) (*api.ListBindingsResponse, error) {
	var (
		filters api.BindingFilters
		opts    api.ListOptions
	)
	if request.Filters != nil {
		filters = *request.Filters
	}
	if request.Options != nil {
		opts = *request.Options
	}
	if opts.Limit < 0 {
		return nil, errdefs.ErrInvalidArgument("limit must not be negative")
	}

	var (
		bindings []*api.Binding
		err      error
	)
	s.store.View(func(tx store.ReadTx) {
		bindings, err = store.ListBindings(tx, filters, opts)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &api.ListBindingsResponse{
		Bindings: bindings,
	}, nil
}

// ListEntries returns the forwarding entries of a segment as agents see
// them on resync, with the store version they reflect.
//   - Returns `InvalidArgument` if SegmentID is not provided.
//   - Returns `NotFound` if the segment is not found.
func (s *Server) ListEntries(ctx context.Context, request *api.ListEntriesRequest) (*api.ListEntriesResponse, error) {
	if request.SegmentID == "" {
		return nil, errdefs.ErrInvalidArgument("segment id must be provided")
	}

	var (
		resp = &api.ListEntriesResponse{}
		err  error
	)
	s.store.View(func(tx store.ReadTx) {
		resp.Version = tx.Version()
		resp.Entries, err = resolver.SegmentEntries(tx, request.SegmentID)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}
	return resp, nil
}
