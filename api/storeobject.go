package api

import (
	"github.com/docker/go-events"
)

// StoreObject is implemented by everything kept in the memory store.
type StoreObject interface {
	GetID() string
	GetMeta() Meta
	SetMeta(Meta)
	CopyStoreObject() StoreObject
	EventCreate() Event
	EventDelete() Event
}

// Event is a store change event published on the store's watch queue.
type Event interface {
	// Matches reports whether the given event is of the same type and passes
	// every check configured on this one.
	Matches(events.Event) bool
}

func (p *Port) GetID() string                { return p.ID }
func (p *Port) GetMeta() Meta                { return p.Meta }
func (p *Port) SetMeta(m Meta)               { p.Meta = m }
func (p *Port) CopyStoreObject() StoreObject { return p.Copy() }
func (p *Port) EventCreate() Event           { return EventCreatePort{Port: p} }
func (p *Port) EventDelete() Event           { return EventDeletePort{Port: p} }

func (s *Segment) GetID() string                { return s.ID }
func (s *Segment) GetMeta() Meta                { return s.Meta }
func (s *Segment) SetMeta(m Meta)               { s.Meta = m }
func (s *Segment) CopyStoreObject() StoreObject { return s.Copy() }
func (s *Segment) EventCreate() Event           { return EventCreateSegment{Segment: s} }
func (s *Segment) EventDelete() Event           { return EventDeleteSegment{Segment: s} }

func (a *Agent) GetID() string                { return a.ID }
func (a *Agent) GetMeta() Meta                { return a.Meta }
func (a *Agent) SetMeta(m Meta)               { a.Meta = m }
func (a *Agent) CopyStoreObject() StoreObject { return a.Copy() }
func (a *Agent) EventCreate() Event           { return EventCreateAgent{Agent: a} }
func (a *Agent) EventDelete() Event           { return EventDeleteAgent{Agent: a} }

func (b *Binding) GetID() string                { return b.ID }
func (b *Binding) GetMeta() Meta                { return b.Meta }
func (b *Binding) SetMeta(m Meta)               { b.Meta = m }
func (b *Binding) CopyStoreObject() StoreObject { return b.Copy() }
func (b *Binding) EventCreate() Event           { return EventCreateBinding{Binding: b} }
func (b *Binding) EventDelete() Event           { return EventDeleteBinding{Binding: b} }

// EventCreatePort is published when a port is created.
type EventCreatePort struct {
	Port *Port
}

func (e EventCreatePort) Matches(ev events.Event) bool {
	_, ok := ev.(EventCreatePort)
	return ok
}

// EventDeletePort is published when a port is deleted.
type EventDeletePort struct {
	Port *Port
}

func (e EventDeletePort) Matches(ev events.Event) bool {
	_, ok := ev.(EventDeletePort)
	return ok
}

// EventCreateSegment is published when a segment is created.
type EventCreateSegment struct {
	Segment *Segment
}

func (e EventCreateSegment) Matches(ev events.Event) bool {
	_, ok := ev.(EventCreateSegment)
	return ok
}

// EventDeleteSegment is published when a segment is deleted.
type EventDeleteSegment struct {
	Segment *Segment
}

func (e EventDeleteSegment) Matches(ev events.Event) bool {
	_, ok := ev.(EventDeleteSegment)
	return ok
}

// EventCreateAgent is published when an agent is created.
type EventCreateAgent struct {
	Agent *Agent
}

func (e EventCreateAgent) Matches(ev events.Event) bool {
	_, ok := ev.(EventCreateAgent)
	return ok
}

// EventDeleteAgent is published when an agent is deleted.
type EventDeleteAgent struct {
	Agent *Agent
}

func (e EventDeleteAgent) Matches(ev events.Event) bool {
	_, ok := ev.(EventDeleteAgent)
	return ok
}

// BindingCheckFunc compares the binding of a configured event with the binding
// of a published one.
type BindingCheckFunc func(b1, b2 *Binding) bool

// BindingCheckID matches bindings with the same id.
func BindingCheckID(b1, b2 *Binding) bool {
	return b1.ID == b2.ID
}

// BindingCheckSegment matches bindings on the same segment.
func BindingCheckSegment(b1, b2 *Binding) bool {
	return b1.SegmentID == b2.SegmentID
}

// BindingCheckAgent matches bindings hosted by the same agent.
func BindingCheckAgent(b1, b2 *Binding) bool {
	return b1.AgentID == b2.AgentID
}

// EventCreateBinding is published when a binding is created. Location is the
// forwarding information resolved in the creating transaction.
type EventCreateBinding struct {
	Binding  *Binding
	Location *Location
	Checks   []BindingCheckFunc
}

func (e EventCreateBinding) Matches(ev events.Event) bool {
	typed, ok := ev.(EventCreateBinding)
	if !ok {
		return false
	}
	for _, check := range e.Checks {
		if !check(e.Binding, typed.Binding) {
			return false
		}
	}
	return true
}

// EventDeleteBinding is published when a binding is deleted, whether directly
// or because an object it referenced was deleted.
type EventDeleteBinding struct {
	Binding *Binding
	Checks  []BindingCheckFunc
}

func (e EventDeleteBinding) Matches(ev events.Event) bool {
	typed, ok := ev.(EventDeleteBinding)
	if !ok {
		return false
	}
	for _, check := range e.Checks {
		if !check(e.Binding, typed.Binding) {
			return false
		}
	}
	return true
}

// EventCommit is published after the events of a committed update. Version
// is the store version the update produced.
type EventCommit struct {
	Version Version
}

func (e EventCommit) Matches(ev events.Event) bool {
	_, ok := ev.(EventCommit)
	return ok
}

// StoreActionKind is the type of a persisted store mutation.
type StoreActionKind int

const (
	// StoreActionKindCreate inserts an object.
	StoreActionKindCreate StoreActionKind = iota + 1
	// StoreActionKindRemove deletes an object.
	StoreActionKindRemove
)

// StoreAction is a single object mutation in a committed update. Exactly one
// of the object fields is set.
type StoreAction struct {
	Kind    StoreActionKind `json:"kind"`
	Port    *Port           `json:"port,omitempty"`
	Segment *Segment        `json:"segment,omitempty"`
	Agent   *Agent          `json:"agent,omitempty"`
	Binding *Binding        `json:"binding,omitempty"`
}

// NewStoreAction wraps obj in a store action of the given kind.
func NewStoreAction(kind StoreActionKind, obj StoreObject) (StoreAction, error) {
	sa := StoreAction{Kind: kind}
	switch v := obj.(type) {
	case *Port:
		sa.Port = v
	case *Segment:
		sa.Segment = v
	case *Agent:
		sa.Agent = v
	case *Binding:
		sa.Binding = v
	default:
		return StoreAction{}, errUnknownStoreObject
	}
	return sa, nil
}

// Object returns the object carried by the action, or nil.
func (sa StoreAction) Object() StoreObject {
	switch {
	case sa.Port != nil:
		return sa.Port
	case sa.Segment != nil:
		return sa.Segment
	case sa.Agent != nil:
		return sa.Agent
	case sa.Binding != nil:
		return sa.Binding
	}
	return nil
}

// StoreSnapshot is the full content of the store at Version.
type StoreSnapshot struct {
	Version  Version    `json:"version"`
	Ports    []*Port    `json:"ports,omitempty"`
	Segments []*Segment `json:"segments,omitempty"`
	Agents   []*Agent   `json:"agents,omitempty"`
	Bindings []*Binding `json:"bindings,omitempty"`
}
