package dispatcher

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/docker/go-events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/dispatcher/heartbeat"
	"github.com/moby/fdbkit/manager/resolver"
	"github.com/moby/fdbkit/manager/state/store"
	"github.com/moby/fdbkit/watch"
)

const (
	defaultHeartBeatPeriod       = 5 * time.Second
	defaultHeartBeatEpsilon      = 500 * time.Millisecond
	defaultGracePeriodMultiplier = 3
	defaultSessionQueueSize      = 1024
	defaultResyncRate            = 50
	defaultResyncBurst           = 100
)

var (
	// ErrSessionInvalid returned when the session in use is no longer valid.
	// The agent should re-register and start a new session.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrNotRunning returned when the dispatcher is not running.
	ErrNotRunning = errors.New("dispatcher is stopped")
)

// Config is configuration for Dispatcher. For default you should use
// DefaultConfig.
type Config struct {
	HeartbeatPeriod       time.Duration
	HeartbeatEpsilon      time.Duration
	GracePeriodMultiplier int
	// SessionQueueSize bounds the change sets buffered for one agent.
	// Change sets that do not fit are dropped.
	SessionQueueSize int
	// ResyncRate and ResyncBurst limit the resync requests served across
	// all agents. Requests over the limit wait.
	ResyncRate  rate.Limit
	ResyncBurst int
	Clock       clock.Clock
}

// DefaultConfig returns default config for Dispatcher.
func DefaultConfig() *Config {
	return &Config{
		HeartbeatPeriod:       defaultHeartBeatPeriod,
		HeartbeatEpsilon:      defaultHeartBeatEpsilon,
		GracePeriodMultiplier: defaultGracePeriodMultiplier,
		SessionQueueSize:      defaultSessionQueueSize,
		ResyncRate:            defaultResyncRate,
		ResyncBurst:           defaultResyncBurst,
		Clock:                 clock.NewClock(),
	}
}

// Dispatcher distributes forwarding database changes to the agents hosting
// the affected segments, and serves their resync requests.
type Dispatcher struct {
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  bool
	started  chan struct{}
	sessions *sessionStore
	store    *store.MemoryStore
	changes  *watch.Queue
	limiter  *rate.Limiter
	config   *Config
}

// New returns Dispatcher with store.
func New(s *store.MemoryStore, c *Config) *Dispatcher {
	if c.Clock == nil {
		c.Clock = clock.NewClock()
	}
	return &Dispatcher{
		sessions: newSessionStore(c.HeartbeatPeriod, c.HeartbeatEpsilon, c.GracePeriodMultiplier),
		store:    s,
		started:  make(chan struct{}),
		changes: watch.NewQueue(
			watch.WithLimit(c.SessionQueueSize),
			watch.WithDropHandler(func(ev events.Event) {
				droppedCounter.Inc()
				if cs, ok := ev.(*api.ChangeSet); ok {
					log.L.WithFields(logrus.Fields{
						"binding.id": cs.BindingID,
						"segment.id": cs.SegmentID,
					}).Debug("change set dropped for a slow agent")
				}
			}),
		),
		limiter: rate.NewLimiter(c.ResyncRate, c.ResyncBurst),
		config:  c,
	}
}

// Run converts committed binding changes into change sets and publishes them
// until ctx is cancelled or Stop is called.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrNotRunning
	}
	if d.cancel != nil {
		d.mu.Unlock()
		return errors.New("dispatcher is already running")
	}
	ctx = log.WithModule(ctx, "dispatcher")
	d.ctx, d.cancel = context.WithCancel(ctx)
	ctx = d.ctx
	d.mu.Unlock()

	eventq, cancel := store.Watch(d.store.WatchQueue(),
		api.EventCreateBinding{},
		api.EventDeleteBinding{},
		api.EventCommit{},
	)
	defer cancel()
	defer d.Stop()
	close(d.started)

	log.G(ctx).Info("dispatcher started")

	// Change sets wait for the commit event that carries their version.
	var pending []*api.ChangeSet
	for {
		select {
		case ev := <-eventq:
			switch v := ev.(type) {
			case api.EventCreateBinding:
				if v.Location == nil {
					log.G(ctx).WithField("binding.id", v.Binding.ID).Warn("binding created without location")
					continue
				}
				entry := &api.ForwardingEntry{Binding: v.Binding, Location: v.Location}
				pending = append(pending, api.BindingAdded(entry, api.Version{}))
			case api.EventDeleteBinding:
				pending = append(pending, api.BindingRemoved(v.Binding, api.Version{}))
			case api.EventCommit:
				for _, cs := range pending {
					cs.Version = v.Version
					d.Notify(cs)
				}
				pending = nil
			}
		case <-ctx.Done():
			log.G(ctx).Info("dispatcher stopped")
			return nil
		}
	}
}

// Stop stops the dispatcher and closes every session.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.sessions.Clean()
	sessionsGauge.Set(0)
	return d.changes.Close()
}

func (d *Dispatcher) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil && !d.stopped
}

// Notify publishes a change set to the sessions hosting its segment. It
// returns as soon as the change set is queued for each of them; a session
// whose queue is full misses it.
func (d *Dispatcher) Notify(cs *api.ChangeSet) {
	publishedCounter.Inc()
	d.changes.Publish(cs)
}

// Register opens a session for an agent. A previous session of the same
// agent is closed. The agent must exist in the store.
func (d *Dispatcher) Register(ctx context.Context, r *api.RegisterRequest) (*api.RegisterResponse, error) {
	if r.AgentID == "" {
		return nil, errdefs.ErrInvalidArgument("agent id must be provided")
	}
	if !d.isRunning() {
		return nil, status.Error(codes.Aborted, ErrNotRunning.Error())
	}

	var agent *api.Agent
	d.store.View(func(tx store.ReadTx) {
		agent = store.GetAgent(tx, r.AgentID)
	})
	if agent == nil {
		return nil, errdefs.ErrAgentNotFound(r.AgentID)
	}

	sess := newSession(identity.NewID(), r.AgentID, r.Segments)
	sid := sess.ID
	period := d.sessions.periodChooser.Choose()

	logger := log.G(d.ctx).WithFields(logrus.Fields{
		"agent.id":   r.AgentID,
		"session.id": sid,
	})
	sess.Heartbeat = heartbeat.New(d.config.Clock, period*time.Duration(d.config.GracePeriodMultiplier), func() {
		if d.sessions.Delete(sid) {
			sessionsGauge.Set(float64(d.sessions.Len()))
			logger.Info("heartbeat expiration")
		}
	})
	d.sessions.Add(sess)
	sessionsGauge.Set(float64(d.sessions.Len()))

	logger.WithField("segments", r.Segments).Debug("agent registered")
	return &api.RegisterResponse{
		SessionID: sid,
		Period:    period,
	}, nil
}

// Heartbeat is heartbeat method for agents. It returns new TTL in response.
// An agent should send new heartbeat earlier than now + TTL, otherwise its
// session is closed and it has to register again.
func (d *Dispatcher) Heartbeat(ctx context.Context, r *api.HeartbeatRequest) (*api.HeartbeatResponse, error) {
	period, err := d.sessions.Heartbeat(r.SessionID)
	if err != nil {
		return nil, err
	}
	return &api.HeartbeatResponse{Period: period}, nil
}

// Subscribe streams the change sets of the segments the session's agent
// hosts, until the client goes away or the session ends. Delivery is at most
// once: a change set the session could not buffer is not retried.
func (d *Dispatcher) Subscribe(r *api.SubscribeRequest, stream api.Dispatcher_SubscribeServer) error {
	sess, err := d.sessions.Get(r.SessionID)
	if err != nil {
		return err
	}

	ctx := stream.Context()
	logger := log.G(ctx).WithFields(logrus.Fields{
		"method":     "(*Dispatcher).Subscribe",
		"agent.id":   sess.AgentID,
		"session.id": sess.ID,
	})

	eventq, cancel := d.changes.CallbackWatch(events.MatcherFunc(func(ev events.Event) bool {
		cs, ok := ev.(*api.ChangeSet)
		return ok && sess.Hosts(cs.SegmentID)
	}))
	defer cancel()

	logger.Debug("subscribed")
	for {
		select {
		case ev := <-eventq:
			cs := ev.(*api.ChangeSet)
			if err := stream.Send(cs); err != nil {
				logger.WithError(err).Debug("failed to send change set")
				return err
			}
		case <-sess.Disconnect:
			return status.Error(codes.InvalidArgument, ErrSessionInvalid.Error())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Resync returns every forwarding entry of a segment, read in one
// transaction together with the store version it reflects. Requests beyond
// the configured rate wait for their turn.
func (d *Dispatcher) Resync(ctx context.Context, r *api.ResyncRequest) (*api.ResyncResponse, error) {
	if _, err := d.sessions.Get(r.SessionID); err != nil {
		return nil, err
	}
	if r.SegmentID == "" {
		return nil, errdefs.ErrInvalidArgument("segment id must be provided")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		switch ctx.Err() {
		case context.Canceled:
			return nil, status.Error(codes.Canceled, err.Error())
		case context.DeadlineExceeded:
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		}
		return nil, status.Error(codes.ResourceExhausted, err.Error())
	}

	var (
		entries []*api.ForwardingEntry
		version api.Version
		err     error
	)
	d.store.View(func(tx store.ReadTx) {
		version = tx.Version()
		entries, err = resolver.SegmentEntries(tx, r.SegmentID)
	})
	if err != nil {
		return nil, err
	}
	resyncCounter.Inc()

	return &api.ResyncResponse{
		SegmentID: r.SegmentID,
		Entries:   entries,
		Version:   version,
	}, nil
}

// SessionCount returns number of agents connected to this dispatcher.
func (d *Dispatcher) SessionCount() int {
	return d.sessions.Len()
}
