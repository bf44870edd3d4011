package application

import (
	"sync"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

// SessionStore holds the in-memory sessions keyed by identity. Sessions do
// not survive a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[domain.Identity]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[domain.Identity]domain.Session{}}
}

// Get returns the session of identity, or an idle one if none exists.
func (s *SessionStore) Get(identity domain.Identity) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[identity]
	if !ok {
		return domain.IdleSession(identity)
	}

	return session
}

func (s *SessionStore) Put(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.State == domain.SessionIdle {
		delete(s.sessions, session.Identity)
		return
	}
	s.sessions[session.Identity] = session
}

func (s *SessionStore) Delete(identity domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, identity)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
