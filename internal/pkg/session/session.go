// internal/pkg/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type contextKey struct{}

// Store keeps per-browser session data in Redis hashes
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis-backed session store
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Open returns a handle to the session with the given ID. No Redis call is made.
func (s *Store) Open(id string) *Session {
	return &Session{ID: id, store: s}
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Session is a handle to one browser session's data
type Session struct {
	ID    string
	store *Store
}

// Get returns the value stored under field, refreshing the session TTL
func (s *Session) Get(ctx context.Context, field string) (string, bool, error) {
	key := s.store.key(s.ID)

	var get *redis.StringCmd
	_, err := s.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, key, field)
		pipe.Expire(ctx, key, s.store.ttl)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get failed: %w", err)
	}

	return get.Val(), true, nil
}

// GetOrSet stores value under field unless a value is already present and
// returns whichever value the session holds afterwards.
func (s *Session) GetOrSet(ctx context.Context, field, value string) (string, error) {
	key := s.store.key(s.ID)

	var get *redis.StringCmd
	_, err := s.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, field, value)
		get = pipe.HGet(ctx, key, field)
		pipe.Expire(ctx, key, s.store.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session get-or-set failed: %w", err)
	}

	return get.Val(), nil
}

// NewContext returns a copy of ctx carrying sess
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session attached to ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}
