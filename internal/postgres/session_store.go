package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
)

var _ sessions.Store = (*SessionStore)(nil)

// SessionStore keeps session rows in the sessions table. Revoke is a single
// DELETE, so its row count is the atomic consume that rotation relies on.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore returns a Postgres-backed sessions.Store.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Create(ctx context.Context, principalID int64, expiresAt time.Time) (string, error) {
	const query = `INSERT INTO sessions (id, principal_id, expires_at) VALUES ($1, $2, $3)`

	id := uuid.New().String()
	if _, err := s.pool.Exec(ctx, query, id, principalID, expiresAt); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrStorageUnavailable, "insert session: %v", err)
	}
	return id, nil
}

func (s *SessionStore) IsLive(ctx context.Context, sessionID string, principalID int64) (bool, error) {
	const query = `SELECT 1 FROM sessions WHERE id=$1 AND principal_id=$2 AND expires_at > NOW()`

	if _, err := uuid.Parse(sessionID); err != nil {
		return false, nil
	}

	var one int
	err := s.pool.QueryRow(ctx, query, sessionID, principalID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "select session: %v", err)
	}
	return true, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) (bool, error) {
	const query = `DELETE FROM sessions WHERE id=$1`

	if _, err := uuid.Parse(sessionID); err != nil {
		return false, nil
	}

	cmd, err := s.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return false, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete session: %v", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *SessionStore) RevokeAllForPrincipal(ctx context.Context, principalID int64) error {
	const query = `DELETE FROM sessions WHERE principal_id=$1`

	if _, err := s.pool.Exec(ctx, query, principalID); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete sessions for principal: %v", err)
	}
	return nil
}
