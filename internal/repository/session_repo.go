package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog_api/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sess:"

// SessionRedis keeps one key per session; Redis expiry enforces the TTL.
type SessionRedis struct {
	rdb *redis.Client
}

func NewSessionRedis(rdb *redis.Client) *SessionRedis { return &SessionRedis{rdb: rdb} }

var _ SessionRepo = (*SessionRedis)(nil)

func sessionKey(id string) string { return sessionKeyPrefix + id }

// Save writes the session with the given time to live.
func (r *SessionRedis) Save(ctx context.Context, s models.Session, ttl time.Duration) error {
	if s.ID == "" {
		return errors.New("save session: empty id")
	}
	if ttl <= 0 {
		return fmt.Errorf("save session: non-positive ttl %s", ttl)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the session, or (nil, nil) if it does not exist or has expired.
func (r *SessionRedis) Load(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = id
	if !s.ExpiresAt.IsZero() && !time.Now().Before(s.ExpiresAt) {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
