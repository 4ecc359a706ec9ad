package agent

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
)

const (
	initialSessionFailureBackoff = 100 * time.Millisecond
	maxSessionFailureBackoff     = 8 * time.Second
)

// Agent keeps the forwarding rules of one host in line with the forwarding
// database. It holds a session with a manager, applies the changes pushed
// for its segments and periodically resyncs them in full.
type Agent struct {
	config *Config

	table      *table
	reconciler *reconciler
	segments   map[string]struct{}

	started   chan struct{}
	startOnce sync.Once
	stopped   chan struct{}
	stopOnce  sync.Once
	closed    chan struct{}
	ready     chan struct{}
	readyOnce sync.Once
}

// New returns a new agent. The table persisted in config.DB, if any, is
// loaded right away.
func New(config *Config) (*Agent, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	t, err := newTable(config.DB)
	if err != nil {
		return nil, err
	}

	segments := make(map[string]struct{}, len(config.Segments))
	for _, id := range config.Segments {
		segments[id] = struct{}{}
	}

	return &Agent{
		config:     config,
		table:      t,
		reconciler: newReconciler(config.Programmer),
		segments:   segments,
		started:    make(chan struct{}),
		stopped:    make(chan struct{}),
		closed:     make(chan struct{}),
		ready:      make(chan struct{}),
	}, nil
}

// Run blocks until the context is cancelled or Stop is called, holding a
// session with one of the managers. Session failures are retried with
// backoff against the next selected manager.
func (a *Agent) Run(ctx context.Context) error {
	err := errAgentStarted
	a.startOnce.Do(func() {
		close(a.started)
		err = nil
	})
	if err != nil {
		return err
	}
	defer close(a.closed)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = log.WithLogger(ctx, log.G(ctx).WithField("agent.id", a.config.ID))

	// Program what survived the restart before the managers are reachable.
	a.program(ctx)

	var backoff time.Duration
	for {
		if backoff > 0 {
			timer := a.config.Clock.NewTimer(backoff)
			select {
			case <-timer.C():
			case <-a.stopped:
				timer.Stop()
				return nil
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		err := a.runSession(ctx)
		switch {
		case err == errAgentStopped:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		}

		log.G(ctx).WithError(err).Error("agent: session failed")
		backoff = initialSessionFailureBackoff + 2*backoff
		if backoff > maxSessionFailureBackoff {
			backoff = maxSessionFailureBackoff
		}
		backoff = backoff/2 + time.Duration(rand.Int63n(int64(backoff/2)+1))
	}
}

// Stop shuts the agent down and waits for Run to return.
func (a *Agent) Stop(ctx context.Context) error {
	select {
	case <-a.started:
	default:
		return errAgentNotStarted
	}

	a.stopOnce.Do(func() {
		close(a.stopped)
	})

	select {
	case <-a.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready is closed once every hosted segment has been resynced after
// registration.
func (a *Agent) Ready() <-chan struct{} {
	return a.ready
}

// Entries returns the forwarding entries the agent holds for a segment.
func (a *Agent) Entries(segmentID string) []*api.ForwardingEntry {
	return a.table.Entries(segmentID)
}

func (a *Agent) runSession(ctx context.Context) (err error) {
	conn, err := a.config.ConnBroker.Select(ctx, grpc.WithInsecure())
	if err != nil {
		return err
	}
	parent := ctx
	defer func() {
		// Leaving on stop or cancellation is not the manager's fault.
		conn.Close(err == errAgentStopped || parent.Err() != nil)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = log.WithLogger(ctx, log.G(ctx).WithField("manager.addr", conn.Peer()))

	s := newSession(ctx, a, conn.ClientConn, conn.Peer())
	defer s.close()

	select {
	case <-s.registered:
	case err := <-s.errs:
		return err
	case <-a.stopped:
		return errAgentStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	log.G(ctx).Info("agent: registered")

	if err := a.resyncAll(ctx, s); err != nil {
		return err
	}

	ticker := a.config.Clock.NewTicker(a.config.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case cs := <-s.changes:
			if err := a.handleChange(ctx, cs); err != nil {
				return err
			}
		case <-ticker.C():
			if err := a.resyncAll(ctx, s); err != nil {
				return err
			}
		case err := <-s.errs:
			return err
		case <-a.stopped:
			return errAgentStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Agent) handleChange(ctx context.Context, cs *api.ChangeSet) error {
	if _, ok := a.segments[cs.SegmentID]; !ok {
		return nil
	}

	changed, err := a.table.Apply(cs)
	if err != nil {
		return err
	}
	if changed {
		a.program(ctx)
	}
	return nil
}

// resyncAll replaces the view of every hosted segment with the manager's.
// A segment the manager does not know is emptied.
func (a *Agent) resyncAll(ctx context.Context, s *session) error {
	for _, segmentID := range a.config.Segments {
		var (
			entries []*api.ForwardingEntry
			version api.Version
		)
		resp, err := s.resync(ctx, segmentID)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			entries, version = resp.Entries, resp.Version
		}

		if _, err := a.table.Replace(segmentID, entries, version); err != nil {
			return err
		}
	}
	log.G(ctx).WithField("segments", len(a.config.Segments)).Debug("agent: resynced")

	// Sync even when nothing changed so rules that failed to program are
	// retried.
	a.program(ctx)
	a.readyOnce.Do(func() {
		close(a.ready)
	})
	return nil
}

// program derives the rules of the hosted segments and hands them to the
// reconciler. Failures are retried on the next change or resync.
func (a *Agent) program(ctx context.Context) {
	segments := make(map[string][]*api.ForwardingEntry, len(a.segments))
	for id := range a.segments {
		segments[id] = a.table.Entries(id)
	}
	if err := a.reconciler.Sync(ctx, DesiredRules(a.config.ID, segments)); err != nil {
		log.G(ctx).WithError(err).Error("agent: failed to program flows")
	}
}
