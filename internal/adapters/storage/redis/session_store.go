package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"vet-practice/internal/domain/session"
)

const (
	defaultSessionPrefix = "vetpractice:session"
	DefaultSessionTTL    = 12 * time.Hour
)

// SessionStore guarda la sesión como JSON con TTL (vida de la sesión).
type SessionStore struct {
	client red.Cmdable
	prefix string
	ttl    time.Duration
}

func NewSessionStore(client red.Cmdable, keyPrefix string, ttl time.Duration) *SessionStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Get(ctx context.Context, userID string) (session.Session, error) {
	key := s.key(userID)
	if key == "" {
		return session.Session{}, session.ErrInvalidInput
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return session.Session{}, fmt.Errorf("decode cached session: %w", err)
	}
	return sess, nil
}

// Set usa SETNX: dos selecciones concurrentes no pueden ganar las dos.
func (s *SessionStore) Set(ctx context.Context, sess session.Session) error {
	key := s.key(sess.UserID)
	if key == "" {
		return session.ErrInvalidInput
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, key, raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	if !ok {
		return session.ErrExists
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, userID string) error {
	key := s.key(userID)
	if key == "" {
		return session.ErrInvalidInput
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID string) string {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", s.prefix, trimmed)
}
