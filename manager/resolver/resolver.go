// Package resolver turns the identifiers carried by binding requests into
// the port, segment and agent records they designate.
package resolver

import (
	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/manager/state/store"
)

// Resolved holds the records a binding request refers to.
type Resolved struct {
	Port    *api.Port
	Segment *api.Segment
	Agent   *api.Agent
}

// Location returns the forwarding location of the resolved records.
func (r *Resolved) Location() *api.Location {
	return api.NewLocation(r.Port, r.Segment, r.Agent)
}

// Resolve looks up the port, segment and agent of a binding request in that
// order. It fails with the not-found error of the first missing record and
// never modifies the store.
func Resolve(tx store.ReadTx, portID, segmentID, agentID string) (*Resolved, error) {
	port := store.GetPort(tx, portID)
	if port == nil {
		return nil, errdefs.ErrPortNotFound(portID)
	}
	segment := store.GetSegment(tx, segmentID)
	if segment == nil {
		return nil, errdefs.ErrSegmentNotFound(segmentID)
	}
	agent := store.GetAgent(tx, agentID)
	if agent == nil {
		return nil, errdefs.ErrAgentNotFound(agentID)
	}
	return &Resolved{Port: port, Segment: segment, Agent: agent}, nil
}

// Locate builds the forwarding entry of a stored binding. It returns nil if
// any record the binding references is gone.
func Locate(tx store.ReadTx, b *api.Binding) *api.ForwardingEntry {
	r, err := Resolve(tx, b.PortID, b.SegmentID, b.AgentID)
	if err != nil {
		return nil
	}
	return &api.ForwardingEntry{Binding: b, Location: r.Location()}
}

// SegmentEntries returns the forwarding entries of every binding on a
// segment, ordered by binding ID.
func SegmentEntries(tx store.ReadTx, segmentID string) ([]*api.ForwardingEntry, error) {
	if store.GetSegment(tx, segmentID) == nil {
		return nil, errdefs.ErrSegmentNotFound(segmentID)
	}

	bindings, err := store.ListBindings(tx, api.BindingFilters{SegmentID: segmentID}, api.ListOptions{})
	if err != nil {
		return nil, err
	}

	entries := make([]*api.ForwardingEntry, 0, len(bindings))
	for _, b := range bindings {
		if e := Locate(tx, b); e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
