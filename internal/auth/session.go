package auth

import (
	"sync"

	"clubhub-backend-go/internal/models"
)

// State is the session's position in its lifecycle.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	State     State
	Loading   bool
	Principal *Principal
	// Profile may be nil while authenticated if it could not be resolved.
	Profile *models.User
}

// Session holds one client's authentication state. It starts
// unauthenticated and loading until the first identity report. Sessions are
// passed explicitly to the Manager; there is no process-wide current user.
type Session struct {
	mu        sync.RWMutex
	state     State
	loading   bool
	principal *Principal
	profile   *models.User

	observers map[int]func(Snapshot)
	nextObs   int
}

// NewSession returns a session in its initial state.
func NewSession() *Session {
	return &Session{loading: true, observers: make(map[int]func(Snapshot))}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Principal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

func (s *Session) Profile() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the observer.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Loading: s.loading, Principal: s.principal, Profile: s.profile}
}

// transition applies fn under the lock and notifies observers outside it.
func (s *Session) transition(fn func()) Snapshot {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	return snap
}

// begin moves the session to authenticating and returns the previous view so
// a failed attempt can restore it.
func (s *Session) begin() Snapshot {
	var prev Snapshot
	s.transition(func() {
		prev = s.snapshotLocked()
		s.state = StateAuthenticating
	})
	return prev
}

func (s *Session) rollback(prev Snapshot) Snapshot {
	return s.transition(func() {
		s.state, s.loading = prev.State, prev.Loading
		s.principal, s.profile = prev.Principal, prev.Profile
	})
}

// identified records the provider's report: a principal, or nil for none.
func (s *Session) identified(p *Principal, profile *models.User) Snapshot {
	return s.transition(func() {
		s.loading = false
		s.principal = p
		if p == nil {
			s.state, s.profile = StateUnauthenticated, nil
			return
		}
		s.state, s.profile = StateAuthenticated, profile
	})
}
