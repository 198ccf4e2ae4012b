package memory

import (
	"context"
	"strings"
	"sync"

	"vet-practice/internal/domain/session"
)

type SessionStore struct {
	mu   sync.RWMutex
	byID map[string]session.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byID: make(map[string]session.Session)}
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Get(_ context.Context, userID string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[strings.TrimSpace(userID)]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Set(_ context.Context, sess session.Session) error {
	id := strings.TrimSpace(sess.UserID)
	if id == "" {
		return session.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; ok {
		return session.ErrExists
	}
	s.byID[id] = sess
	return nil
}

func (s *SessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, strings.TrimSpace(userID))
	return nil
}
