package store

// By is an interface type passed to Find methods. Implementations must be
// defined in this package.
type By interface {
	// isBy allows this interface to only be satisfied by certain internal
	// types.
	isBy()
}

type byAll struct{}

func (a byAll) isBy() {
}

// All is an argument that can be passed to find to list all items in the
// set.
var All byAll

type orCombinator struct {
	bys []By
}

func (b orCombinator) isBy() {
}

// Or returns a combinator that applies OR logic on all the supplied By
// arguments.
func Or(bys ...By) By {
	return orCombinator{bys: bys}
}

type byIDPrefix string

func (b byIDPrefix) isBy() {
}

// ByIDPrefix creates an object to pass to Find to select by ID prefix.
func ByIDPrefix(idPrefix string) By {
	return byIDPrefix(idPrefix)
}

type byPort string

func (b byPort) isBy() {
}

// ByPortID creates an object to pass to Find to select bindings of a port.
func ByPortID(portID string) By {
	return byPort(portID)
}

type bySegment string

func (b bySegment) isBy() {
}

// BySegmentID creates an object to pass to Find to select bindings on a
// segment.
func BySegmentID(segmentID string) By {
	return bySegment(segmentID)
}

type byAgent string

func (b byAgent) isBy() {
}

// ByAgentID creates an object to pass to Find to select bindings hosted by an
// agent.
func ByAgentID(agentID string) By {
	return byAgent(agentID)
}

type byTriple struct {
	portID    string
	segmentID string
	agentID   string
}

func (b byTriple) isBy() {
}

// ByTriple creates an object to pass to Find to select the bindings of a
// port on a segment through an agent.
func ByTriple(portID, segmentID, agentID string) By {
	return byTriple{portID: portID, segmentID: segmentID, agentID: agentID}
}
