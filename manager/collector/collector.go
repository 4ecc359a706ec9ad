package collector

import (
	"context"
	"sync"

	metrics "github.com/docker/go-metrics"
	"github.com/docker/go-events"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/state/store"
)

// Object kinds reported by the collector.
const (
	KindPort    = "port"
	KindSegment = "segment"
	KindAgent   = "agent"
	KindBinding = "binding"
)

var objectsMetric metrics.LabeledGauge

func init() {
	ns := metrics.NewNamespace("fdb", "store", nil)
	objectsMetric = ns.NewLabeledGauge("objects", "The number of objects in the forwarding database", metrics.Total, "kind")
	metrics.Register(ns)
}

// Collector keeps gauges of the objects in a store up to date.
type Collector struct {
	store *store.MemoryStore

	mu     sync.Mutex
	counts map[string]int

	stopChan chan struct{}
	doneChan chan struct{}
}

// New returns a Collector watching store.
func New(store *store.MemoryStore) *Collector {
	return &Collector{
		store:    store,
		counts:   make(map[string]int),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Run counts the objects in the store, then follows its changes until Stop
// is called or ctx is done.
func (c *Collector) Run(ctx context.Context) error {
	defer close(c.doneChan)
	ctx = log.WithModule(ctx, "collector")

	watcher, cancel, err := store.ViewAndWatch(c.store, func(tx store.ReadTx) error {
		ports, err := store.FindPorts(tx, store.All)
		if err != nil {
			return err
		}
		segments, err := store.FindSegments(tx, store.All)
		if err != nil {
			return err
		}
		agents, err := store.FindAgents(tx, store.All)
		if err != nil {
			return err
		}
		bindings, err := store.FindBindings(tx, store.All)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.counts[KindPort] = len(ports)
		c.counts[KindSegment] = len(segments)
		c.counts[KindAgent] = len(agents)
		c.counts[KindBinding] = len(bindings)
		c.mu.Unlock()
		c.publish()
		return nil
	})
	if err != nil {
		log.G(ctx).WithError(err).Error("failed to count store objects")
		return err
	}
	defer cancel()

	for {
		select {
		case event := <-watcher:
			c.handleEvent(event)
		case <-c.stopChan:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Collector) handleEvent(event events.Event) {
	var (
		kind  string
		delta int
	)
	switch event.(type) {
	case api.EventCreatePort:
		kind, delta = KindPort, 1
	case api.EventDeletePort:
		kind, delta = KindPort, -1
	case api.EventCreateSegment:
		kind, delta = KindSegment, 1
	case api.EventDeleteSegment:
		kind, delta = KindSegment, -1
	case api.EventCreateAgent:
		kind, delta = KindAgent, 1
	case api.EventDeleteAgent:
		kind, delta = KindAgent, -1
	case api.EventCreateBinding:
		kind, delta = KindBinding, 1
	case api.EventDeleteBinding:
		kind, delta = KindBinding, -1
	default:
		return
	}

	c.mu.Lock()
	c.counts[kind] += delta
	c.mu.Unlock()
	c.publish()
}

func (c *Collector) publish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for kind, n := range c.counts {
		objectsMetric.WithValues(kind).Set(float64(n))
	}
}

// Count returns the last known number of objects of a kind.
func (c *Collector) Count(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

// Stop stops the collector and waits for Run to return.
func (c *Collector) Stop() {
	close(c.stopChan)
	<-c.doneChan
}
