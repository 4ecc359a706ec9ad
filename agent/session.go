package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
)

// session is one registration of the agent with a manager: it registers,
// subscribes to the agent's segments and keeps the session alive with
// heartbeats. Change sets pushed by the manager arrive on changes. The
// first failure is reported on errs, after which the session is useless
// and the agent starts a new one.
type session struct {
	agent     *Agent
	conn      *grpc.ClientConn
	addr      string
	sessionID string
	errs      chan error
	changes   chan *api.ChangeSet

	registered chan struct{} // closed registration
	closed     chan struct{}
}

func newSession(ctx context.Context, agent *Agent, conn *grpc.ClientConn, addr string) *session {
	s := &session{
		agent:      agent,
		conn:       conn,
		addr:       addr,
		errs:       make(chan error),
		changes:    make(chan *api.ChangeSet),
		registered: make(chan struct{}),
		closed:     make(chan struct{}),
	}

	go s.run(ctx)
	return s
}

func (s *session) run(ctx context.Context) {
	sessionID, period, err := s.register(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	ctx = log.WithLogger(ctx, log.G(ctx).WithField("session.id", sessionID))
	s.sessionID = sessionID

	// Subscribe before announcing the registration. Changes racing the
	// first resync are either covered by it or dropped as stale.
	client := api.NewDispatcherClient(s.conn)
	stream, err := client.Subscribe(ctx, &api.SubscribeRequest{SessionID: sessionID})
	if err != nil {
		s.fail(ctx, err)
		return
	}
	close(s.registered)

	go runctx(ctx, func(ctx context.Context) error { return s.heartbeat(ctx, period) }, s.closed, s.errs)
	go runctx(ctx, func(ctx context.Context) error { return s.listen(ctx, stream) }, s.closed, s.errs)
}

func (s *session) fail(ctx context.Context, err error) {
	select {
	case s.errs <- err:
	case <-s.closed:
	case <-ctx.Done():
	}
}

func (s *session) register(ctx context.Context) (string, time.Duration, error) {
	client := api.NewDispatcherClient(s.conn)

	resp, err := client.Register(ctx, &api.RegisterRequest{
		AgentID:  s.agent.config.ID,
		Segments: s.agent.config.Segments,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", 0, errAgentNotRegistered
		}

		return "", 0, err
	}

	return resp.SessionID, resp.Period, nil
}

func (s *session) heartbeat(ctx context.Context, period time.Duration) error {
	client := api.NewDispatcherClient(s.conn)
	heartbeat := s.agent.config.Clock.NewTimer(period)
	defer heartbeat.Stop()

	for {
		select {
		case <-heartbeat.C():
			start := time.Now()
			resp, err := client.Heartbeat(ctx, &api.HeartbeatRequest{
				SessionID: s.sessionID,
			})
			if err != nil {
				return err
			}

			heartbeat.Reset(resp.Period)
			log.G(ctx).WithFields(logrus.Fields{
				"session.period": resp.Period,
				"grpc.duration":  time.Since(start),
			}).Debug("agent: heartbeat")
		case <-s.closed:
			return errSessionClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *session) listen(ctx context.Context, stream api.Dispatcher_SubscribeClient) error {
	for {
		cs, err := stream.Recv()
		if err != nil {
			return err
		}

		select {
		case s.changes <- cs:
		case <-s.closed:
			return errSessionClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// resync fetches the authoritative entries of a segment.
func (s *session) resync(ctx context.Context, segmentID string) (*api.ResyncResponse, error) {
	select {
	case <-s.closed:
		return nil, errSessionClosed
	default:
	}

	client := api.NewDispatcherClient(s.conn)
	return client.Resync(ctx, &api.ResyncRequest{
		SessionID: s.sessionID,
		SegmentID: segmentID,
	})
}

// close stops the session goroutines. Closing twice is an error.
func (s *session) close() error {
	select {
	case <-s.closed:
		return errSessionClosed
	default:
	}
	close(s.closed)
	return nil
}

// runctx runs fn and reports its result on errs, unless the session closes
// or ctx ends first.
func runctx(ctx context.Context, fn func(ctx context.Context) error, closed chan struct{}, errs chan error) {
	select {
	case errs <- fn(ctx):
	case <-closed:
	case <-ctx.Done():
	}
}
