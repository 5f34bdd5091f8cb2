package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when no live session matches the lookup key.
	ErrNotFound = errors.New("session not found")
	// ErrRedisUnavailable wraps transport-level Redis failures so callers
	// can distinguish "gone" from "unknown".
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Store is a Redis-backed session store. It is safe for concurrent use.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore returns a store keyed under the given prefix.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "carve"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) sessionKey(id string) string {
	return s.prefix + ":session:" + id
}

func (s *Store) tokenKey(token string) string {
	return s.prefix + ":token:" + token
}

// Create persists sess and its token index. Both keys carry the session's
// remaining lifetime as their Redis TTL, so expiry needs no sweeper.
func (s *Store) Create(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" || sess.UserID == "" || sess.Token == "" {
		return errors.New("session: missing id, user id, or token")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session: expiry must be in the future")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.ID), data, ttl)
	pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: %w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetByID resolves a session by its identifier. Expired records still
// present in Redis are deleted on sight and reported as not found.
func (s *Store) GetByID(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	val, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: %w: %v", ErrRedisUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		// Corrupt blob: treat as revoked rather than bubbling garbage up.
		_ = s.client.Del(ctx, s.sessionKey(id)).Err()
		return nil, ErrNotFound
	}
	if !sess.ExpiresAt.After(time.Now()) {
		_ = s.Delete(ctx, sess.ID)
		return nil, ErrNotFound
	}
	return &sess, nil
}

// GetByToken resolves a session through the opaque cookie credential.
func (s *Store) GetByToken(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	id, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: %w: %v", ErrRedisUnavailable, err)
	}

	sess, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		// Dangling index entry; the session itself is gone.
		_ = s.client.Del(ctx, s.tokenKey(token)).Err()
		return nil, ErrNotFound
	}
	return sess, err
}

// Delete revokes a session. Idempotent: deleting an absent session is not an
// error. Once deleted the session must never resolve again.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	val, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: %w: %v", ErrRedisUnavailable, err)
	}

	keys := []string{s.sessionKey(id)}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err == nil && sess.Token != "" {
		keys = append(keys, s.tokenKey(sess.Token))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session: %w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
