package api

// ListOptions pages through an id-ordered listing. A forward page holds up to
// Limit ids strictly greater than Marker; a reverse page holds up to Limit ids
// strictly smaller than Marker. Pages are always returned in ascending order.
// A zero Limit means no limit.
type ListOptions struct {
	Limit       int    `json:"limit,omitempty"`
	Marker      string `json:"marker,omitempty"`
	PageReverse bool   `json:"page_reverse,omitempty"`
}

// BindingFilters narrows a binding listing. Empty fields do not filter.
type BindingFilters struct {
	PortID    string `json:"port_id,omitempty"`
	SegmentID string `json:"segment_id,omitempty"`
	AgentID   string `json:"agent_id,omitempty"`
}

type CreateBindingRequest struct {
	PortID    string `json:"port_id"`
	SegmentID string `json:"segment_id"`
	AgentID   string `json:"agent_id"`
}

type CreateBindingResponse struct {
	Binding *Binding `json:"binding"`
}

type RemoveBindingRequest struct {
	BindingID string `json:"binding_id"`
}

type RemoveBindingResponse struct{}

type GetBindingRequest struct {
	BindingID string `json:"binding_id"`
}

type GetBindingResponse struct {
	Binding *Binding `json:"binding"`
}

type ListBindingsRequest struct {
	Filters *BindingFilters `json:"filters,omitempty"`
	Options *ListOptions    `json:"options,omitempty"`
}

type ListBindingsResponse struct {
	Bindings []*Binding `json:"bindings"`
}

type ListEntriesRequest struct {
	SegmentID string `json:"segment_id"`
}

// ListEntriesResponse holds the forwarding entries of a segment and the
// store version they were read at.
type ListEntriesResponse struct {
	Entries []*ForwardingEntry `json:"entries"`
	Version Version            `json:"version"`
}

type CreatePortRequest struct {
	Port *Port `json:"port"`
}

type CreatePortResponse struct {
	Port *Port `json:"port"`
}

type GetPortRequest struct {
	PortID string `json:"port_id"`
}

type GetPortResponse struct {
	Port *Port `json:"port"`
}

type ListPortsRequest struct{}

type ListPortsResponse struct {
	Ports []*Port `json:"ports"`
}

type RemovePortRequest struct {
	PortID string `json:"port_id"`
}

// RemovePortResponse lists the bindings removed along with the port.
type RemovePortResponse struct {
	Removed []*Binding `json:"removed,omitempty"`
}

type CreateSegmentRequest struct {
	Segment *Segment `json:"segment"`
}

type CreateSegmentResponse struct {
	Segment *Segment `json:"segment"`
}

type GetSegmentRequest struct {
	SegmentID string `json:"segment_id"`
}

type GetSegmentResponse struct {
	Segment *Segment `json:"segment"`
}

type ListSegmentsRequest struct{}

type ListSegmentsResponse struct {
	Segments []*Segment `json:"segments"`
}

type RemoveSegmentRequest struct {
	SegmentID string `json:"segment_id"`
}

type RemoveSegmentResponse struct {
	Removed []*Binding `json:"removed,omitempty"`
}

type CreateAgentRequest struct {
	Agent *Agent `json:"agent"`
}

type CreateAgentResponse struct {
	Agent *Agent `json:"agent"`
}

type GetAgentRequest struct {
	AgentID string `json:"agent_id"`
}

type GetAgentResponse struct {
	Agent *Agent `json:"agent"`
}

type ListAgentsRequest struct{}

type ListAgentsResponse struct {
	Agents []*Agent `json:"agents"`
}

type RemoveAgentRequest struct {
	AgentID string `json:"agent_id"`
}

type RemoveAgentResponse struct {
	Removed []*Binding `json:"removed,omitempty"`
}
