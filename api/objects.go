package api

import (
	"time"
)

// Version is the store version an object was last written at.
type Version struct {
	Index uint64 `json:"index"`
}

// Meta holds bookkeeping common to every stored object.
type Meta struct {
	Version   Version   `json:"version"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Network types for which overlay forwarding is distributed.
const (
	NetworkTypeVXLAN  = "vxlan"
	NetworkTypeGRE    = "gre"
	NetworkTypeGeneve = "geneve"
)

// Port is a virtual network interface attached to a network.
type Port struct {
	ID         string `json:"id"`
	Meta       Meta   `json:"meta"`
	NetworkID  string `json:"network_id,omitempty"`
	Name       string `json:"name,omitempty"`
	MACAddress string `json:"mac_address"`
	IPAddress  string `json:"ip_address,omitempty"`
}

// Copy returns a deep copy of the port.
func (p *Port) Copy() *Port {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Segment is an isolated layer-2 slice of a network, identified on the wire
// by its segmentation id (VNI for vxlan, key for gre).
type Segment struct {
	ID             string `json:"id"`
	Meta           Meta   `json:"meta"`
	NetworkID      string `json:"network_id,omitempty"`
	NetworkType    string `json:"network_type"`
	SegmentationID uint32 `json:"segmentation_id"`
}

// Copy returns a deep copy of the segment.
func (s *Segment) Copy() *Segment {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Agent is a host-resident process that programs local forwarding. TunnelIP
// is the endpoint other hosts tunnel to in order to reach its ports.
type Agent struct {
	ID        string `json:"id"`
	Meta      Meta   `json:"meta"`
	Host      string `json:"host"`
	AgentType string `json:"agent_type,omitempty"`
	TunnelIP  string `json:"tunnel_ip"`
}

// Copy returns a deep copy of the agent.
func (a *Agent) Copy() *Agent {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Binding records that a port on a segment is reachable through an agent.
// Its identity fields are immutable once created.
type Binding struct {
	ID        string `json:"id"`
	Meta      Meta   `json:"meta"`
	PortID    string `json:"port_id"`
	SegmentID string `json:"segment_id"`
	AgentID   string `json:"agent_id"`
}

// Copy returns a deep copy of the binding.
func (b *Binding) Copy() *Binding {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// Location is the forwarding information derived from a binding and the
// objects it references.
type Location struct {
	MACAddress     string `json:"mac_address"`
	IPAddress      string `json:"ip_address,omitempty"`
	TunnelIP       string `json:"tunnel_ip"`
	Host           string `json:"host,omitempty"`
	NetworkType    string `json:"network_type"`
	SegmentationID uint32 `json:"segmentation_id"`
}

// NewLocation builds the location of a port on a segment hosted by an agent.
func NewLocation(p *Port, s *Segment, a *Agent) *Location {
	return &Location{
		MACAddress:     p.MACAddress,
		IPAddress:      p.IPAddress,
		TunnelIP:       a.TunnelIP,
		Host:           a.Host,
		NetworkType:    s.NetworkType,
		SegmentationID: s.SegmentationID,
	}
}

// ForwardingEntry is a binding together with its resolved location, the unit
// agents program flows from.
type ForwardingEntry struct {
	Binding  *Binding  `json:"binding"`
	Location *Location `json:"location"`
}

// Copy returns a deep copy of the entry.
func (e *ForwardingEntry) Copy() *ForwardingEntry {
	if e == nil {
		return nil
	}
	c := &ForwardingEntry{Binding: e.Binding.Copy()}
	if e.Location != nil {
		l := *e.Location
		c.Location = &l
	}
	return c
}
