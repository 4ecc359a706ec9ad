package controlapi

import (
	"context"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/state/store"
)

func validatePort(p *api.Port) error {
	if p == nil {
		return errdefs.ErrInvalidArgument("port must be provided")
	}
	if err := validateMAC(p.MACAddress); err != nil {
		return err
	}
	return validateIP(p.IPAddress, false)
}

// CreatePort registers a port. An ID is generated if none is provided.
//   - Returns `InvalidArgument` if the MAC or IP address is malformed.
//   - Returns `AlreadyExists` if the ID is taken.
func (s *Server) CreatePort(ctx context.Context, request *api.CreatePortRequest) (*api.CreatePortResponse, error) {
	if err := validatePort(request.Port); err != nil {
		return nil, err
	}

	p := request.Port.Copy()
	p.Meta = api.Meta{}
	if p.ID == "" {
		p.ID = identity.NewUUID()
	}

	err := s.store.Update(func(tx store.Tx) error {
		return store.CreatePort(tx, p)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &api.CreatePortResponse{
		Port: p,
	}, nil
}

// GetPort returns a port given a PortID.
//   - Returns `InvalidArgument` if PortID is not provided.
//   - Returns `NotFound` if the port is not found.
func (s *Server) GetPort(ctx context.Context, request *api.GetPortRequest) (*api.GetPortResponse, error) {
	if request.PortID == "" {
		return nil, errdefs.ErrInvalidArgument("port id must be provided")
	}

	var p *api.Port
	s.store.View(func(tx store.ReadTx) {
		p = store.GetPort(tx, request.PortID)
	})
	if p == nil {
		return nil, errdefs.ErrPortNotFound(request.PortID)
	}
	return &api.GetPortResponse{
		Port: p,
	}, nil
}

// ListPorts returns every port.
func (s *Server) ListPorts(ctx context.Context, request *api.ListPortsRequest) (*api.ListPortsResponse, error) {
	var (
		ports []*api.Port
		err   error
	)
	s.store.View(func(tx store.ReadTx) {
		ports, err = store.FindPorts(tx, store.All)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}
	return &api.ListPortsResponse{
		Ports: ports,
	}, nil
}

// RemovePort removes a port and every binding referencing it, in one
// transaction.
//   - Returns `InvalidArgument` if PortID is not provided.
//   - Returns `NotFound` if the port is not found.
func (s *Server) RemovePort(ctx context.Context, request *api.RemovePortRequest) (*api.RemovePortResponse, error) {
	if request.PortID == "" {
		return nil, errdefs.ErrInvalidArgument("port id must be provided")
	}

	var removed []*api.Binding
	err := s.store.Update(func(tx store.Tx) error {
		var err error
		removed, err = store.DeletePort(tx, request.PortID)
		return err
	})
	if err != nil {
		if err == store.ErrNotExist {
			return nil, errdefs.ErrPortNotFound(request.PortID)
		}
		return nil, translateError(ctx, err)
	}

	log.G(ctx).WithField("port.id", request.PortID).Debugf("port removed with %d bindings", len(removed))
	return &api.RemovePortResponse{
		Removed: removed,
	}, nil
}
