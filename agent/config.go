package agent

import (
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/connectionbroker"
)

const defaultResyncInterval = 5 * time.Minute

// Config provides values for an Agent.
type Config struct {
	// ID is the agent's identifier in the forwarding database.
	ID string

	// ConnBroker provides a connection broker for retrieving gRPC
	// connections to managers. Manager weights are updated as observed by
	// the agent.
	ConnBroker *connectionbroker.Broker

	// Segments lists the segments the agent hosts ports on.
	Segments []string

	// Programmer applies the derived flows to the dataplane.
	Programmer Programmer

	// DB persists the forwarding table across restarts. Optional.
	DB *bolt.DB

	// ResyncInterval is the period of the full resync of every hosted
	// segment. Zero selects the default.
	ResyncInterval time.Duration

	Clock clock.Clock
}

func (c *Config) validate() error {
	if c.ID == "" {
		return errors.New("agent: ID required")
	}
	if c.ConnBroker == nil {
		return errors.New("agent: ConnBroker required")
	}
	if c.Programmer == nil {
		return errors.New("agent: Programmer required")
	}
	if c.ResyncInterval == 0 {
		c.ResyncInterval = defaultResyncInterval
	}
	if c.Clock == nil {
		c.Clock = clock.NewClock()
	}
	return nil
}
