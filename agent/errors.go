package agent

import (
	"github.com/pkg/errors"
)

var (
	errAgentNotRegistered = errors.New("agent: not registered with the forwarding database")

	errAgentStarted    = errors.New("agent: already started")
	errAgentNotStarted = errors.New("agent: not started")
	errAgentStopped    = errors.New("agent: stopped")

	errSessionClosed = errors.New("agent: session closed")
)
