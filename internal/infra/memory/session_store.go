package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		now:      time.Now,
		sessions: make(map[string]domain.Session),
	}
}

func (s *SessionStore) Put(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Username] = session
	return nil
}

// Get returns domain.ErrSessionNotFound for unknown users and for sessions
// past their expiry, which are dropped on the way. The check and the drop
// happen under one lock so a concurrent Put is never lost.
func (s *SessionStore) Get(_ context.Context, username string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[username]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, username)
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, username)
	return nil
}
