package dispatcher

import (
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moby/fdbkit/manager/dispatcher/heartbeat"
)

// session is an agent's registration with this dispatcher.
type session struct {
	ID        string
	AgentID   string
	Heartbeat *heartbeat.Heartbeat

	// segments is the set of segments the agent hosts ports on.
	segments map[string]struct{}

	// Disconnect is closed when the session ends, through expiry,
	// re-registration or dispatcher shutdown.
	Disconnect chan struct{}
	closeOnce  sync.Once
}

func newSession(id, agentID string, segments []string) *session {
	s := &session{
		ID:         id,
		AgentID:    agentID,
		segments:   make(map[string]struct{}, len(segments)),
		Disconnect: make(chan struct{}),
	}
	for _, segment := range segments {
		s.segments[segment] = struct{}{}
	}
	return s
}

// Hosts reports whether the agent of this session hosts segmentID.
func (s *session) Hosts(segmentID string) bool {
	_, ok := s.segments[segmentID]
	return ok
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		if s.Heartbeat != nil {
			s.Heartbeat.Stop()
		}
		close(s.Disconnect)
	})
}

type sessionStore struct {
	periodChooser         *periodChooser
	gracePeriodMultiplier time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
	byAgent  map[string]*session
}

func newSessionStore(hbPeriod, hbEpsilon time.Duration, graceMultiplier int) *sessionStore {
	return &sessionStore{
		periodChooser:         newPeriodChooser(hbPeriod, hbEpsilon),
		gracePeriodMultiplier: time.Duration(graceMultiplier),
		sessions:              make(map[string]*session),
		byAgent:               make(map[string]*session),
	}
}

// Add adds a new session. An earlier session of the same agent is closed
// and replaced.
func (s *sessionStore) Add(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byAgent[sess.AgentID]; ok {
		delete(s.sessions, existing.ID)
		existing.close()
	}
	s.sessions[sess.ID] = sess
	s.byAgent[sess.AgentID] = sess
}

// Get returns the session with the given ID, or a status error telling the
// agent to register again.
func (s *sessionStore) Get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, status.Error(codes.InvalidArgument, ErrSessionInvalid.Error())
	}
	return sess, nil
}

// Heartbeat refreshes a session and returns the period the agent should wait
// before the next heartbeat.
func (s *sessionStore) Heartbeat(id string) (time.Duration, error) {
	sess, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	period := s.periodChooser.Choose()
	sess.Heartbeat.Update(period * s.gracePeriodMultiplier)
	sess.Heartbeat.Beat()
	return period, nil
}

// Delete removes and closes a session. It returns false if id is unknown.
func (s *sessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	delete(s.sessions, id)
	if s.byAgent[sess.AgentID] == sess {
		delete(s.byAgent, sess.AgentID)
	}
	sess.close()
	return true
}

// Clean closes every session.
func (s *sessionStore) Clean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.close()
	}
	s.sessions = make(map[string]*session)
	s.byAgent = make(map[string]*session)
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
