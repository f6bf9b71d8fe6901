// Package redisstore provides a Redis-backed sessions.Store, for
// deployments that keep session state out of Postgres.
package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
)

const (
	sessionKeyPrefix   = "session:"
	principalKeyPrefix = "principal_sessions:"
)

var _ sessions.Store = (*SessionStore)(nil)

// SessionStore keeps each session as a key holding its principal id, with a
// TTL matching the token expiry, plus a per-principal set for bulk revoke.
// DEL's reply count makes Revoke an atomic consume.
type SessionStore struct {
	client  *redis.Client
	nowTime func() time.Time
}

// NewSessionStore returns a Redis-backed sessions.Store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, nowTime: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, principalID int64, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	ttl := expiresAt.Sub(s.nowTime())
	if ttl <= 0 {
		ttl = time.Second
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+id, strconv.FormatInt(principalID, 10), ttl)
	pipe.SAdd(ctx, principalKey(principalID), id)
	pipe.Expire(ctx, principalKey(principalID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrStorageUnavailable, "create session: %v", err)
	}
	return id, nil
}

func (s *SessionStore) IsLive(ctx context.Context, sessionID string, principalID int64) (bool, error) {
	value, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "get session: %v", err)
	}
	return value == strconv.FormatInt(principalID, 10), nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) (bool, error) {
	removed, err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete session: %v", err)
	}
	return removed > 0, nil
}

func (s *SessionStore) RevokeAllForPrincipal(ctx context.Context, principalID int64) error {
	ids, err := s.client.SMembers(ctx, principalKey(principalID)).Result()
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "list principal sessions: %v", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, principalKey(principalID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete principal sessions: %v", err)
	}
	return nil
}

func principalKey(principalID int64) string {
	return principalKeyPrefix + strconv.FormatInt(principalID, 10)
}
