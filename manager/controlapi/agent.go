package controlapi

import (
	"context"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/state/store"
)

func validateAgent(a *api.Agent) error {
	if a == nil {
		return errdefs.ErrInvalidArgument("agent must be provided")
	}
	if a.Host == "" {
		return errdefs.ErrInvalidArgument("agent host must be provided")
	}
	return validateIP(a.TunnelIP, true)
}

// CreateAgent registers an agent. An ID is generated if none is provided.
//   - Returns `InvalidArgument` if the host or tunnel address is missing or
//     malformed.
//   - Returns `AlreadyExists` if the ID is taken.
func (s *Server) CreateAgent(ctx context.Context, request *api.CreateAgentRequest) (*api.CreateAgentResponse, error) {
	if err := validateAgent(request.Agent); err != nil {
		return nil, err
	}

	a := request.Agent.Copy()
	a.Meta = api.Meta{}
	if a.ID == "" {
		a.ID = identity.NewUUID()
	}

	err := s.store.Update(func(tx store.Tx) error {
		return store.CreateAgent(tx, a)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &api.CreateAgentResponse{
		Agent: a,
	}, nil
}

// GetAgent returns an agent given an AgentID.
//   - Returns `InvalidArgument` if AgentID is not provided.
//   - Returns `NotFound` if the agent is not found.
func (s *Server) GetAgent(ctx context.Context, request *api.GetAgentRequest) (*api.GetAgentResponse, error) {
	if request.AgentID == "" {
		return nil, errdefs.ErrInvalidArgument("agent id must be provided")
	}

	var a *api.Agent
	s.store.View(func(tx store.ReadTx) {
		a = store.GetAgent(tx, request.AgentID)
	})
	if a == nil {
		return nil, errdefs.ErrAgentNotFound(request.AgentID)
	}
	return &api.GetAgentResponse{
		Agent: a,
	}, nil
}

// ListAgents returns every agent.
func (s *Server) ListAgents(ctx context.Context, request *api.ListAgentsRequest) (*api.ListAgentsResponse, error) {
	var (
		agents []*api.Agent
		err    error
	)
	s.store.View(func(tx store.ReadTx) {
		agents, err = store.FindAgents(tx, store.All)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}
	return &api.ListAgentsResponse{
		Agents: agents,
	}, nil
}

// RemoveAgent removes an agent and every binding it hosts, in one
// transaction.
//   - Returns `InvalidArgument` if AgentID is not provided.
//   - Returns `NotFound` if the agent is not found.
func (s *Server) RemoveAgent(ctx context.Context, request *api.RemoveAgentRequest) (*api.RemoveAgentResponse, error) {
	if request.AgentID == "" {
		return nil, errdefs.ErrInvalidArgument("agent id must be provided")
	}

	var removed []*api.Binding
	err := s.store.Update(func(tx store.Tx) error {
		var err error
		removed, err = store.DeleteAgent(tx, request.AgentID)
		return err
	})
	if err != nil {
		if err == store.ErrNotExist {
			return nil, errdefs.ErrAgentNotFound(request.AgentID)
		}
		return nil, translateError(ctx, err)
	}

	log.G(ctx).WithField("agent.id", request.AgentID).Debugf("agent removed with %d bindings", len(removed))
	return &api.RemoveAgentResponse{
		Removed: removed,
	}, nil
}
