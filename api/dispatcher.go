package api

import "time"

// RegisterRequest opens a dispatcher session for an agent. Segments lists the
// segments the agent hosts ports on; it only receives changes for those.
type RegisterRequest struct {
	AgentID  string   `json:"agent_id"`
	Segments []string `json:"segments,omitempty"`
}

type RegisterResponse struct {
	SessionID string        `json:"session_id"`
	Period    time.Duration `json:"period"`
}

type HeartbeatRequest struct {
	SessionID string `json:"session_id"`
}

// HeartbeatResponse tells the agent how long it may wait before the next
// heartbeat.
type HeartbeatResponse struct {
	Period time.Duration `json:"period"`
}

type SubscribeRequest struct {
	SessionID string `json:"session_id"`
}

// ResyncRequest asks for every forwarding entry of a segment.
type ResyncRequest struct {
	SessionID string `json:"session_id"`
	SegmentID string `json:"segment_id"`
}

// ResyncResponse is a consistent snapshot of a segment's forwarding entries
// taken at store Version.
type ResyncResponse struct {
	SegmentID string             `json:"segment_id"`
	Entries   []*ForwardingEntry `json:"entries"`
	Version   Version            `json:"version"`
}
