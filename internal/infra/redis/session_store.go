package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps credentials in Redis so that several view servers share
// them. A session's key expires with the session itself; sessions without an
// expiry fall back to the store TTL (zero means no expiry).
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *SessionStore) Put(ctx context.Context, session domain.Session) error {
	ttl := s.ttl
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return domain.ErrSessionExpired
		}
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.Username), data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, username string) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	return s.client.Del(ctx, s.key(username)).Err()
}

func (s *SessionStore) key(username string) string {
	return "quiz:session:" + username
}
