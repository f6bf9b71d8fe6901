package sessions

import (
	"context"
	"time"
)

// Session is the durable record backing a refresh token. Exactly one live
// row exists per issued, non-revoked refresh token; deleting the row is what
// revokes the token.
type Session struct {
	ID          string    // Opaque, server-generated identifier (the token's jti)
	PrincipalID int64     // Owning user id (the token's sub)
	ExpiresAt   time.Time // Hard expiry, mirrors the refresh token's exp
}

// Store is the persistence boundary for sessions. Implementations must make
// Revoke atomic: when two callers race to revoke the same id, exactly one
// sees removed=true. Rotation-on-refresh relies on that to guarantee a
// replayed refresh token can never mint a second live session.
//
// Any persistence failure is wrapped in apperrors.ErrStorageUnavailable;
// callers treat it as verification failure, never as "allow".
type Store interface {
	// Create inserts a new session row and returns its generated id.
	Create(ctx context.Context, principalID int64, expiresAt time.Time) (string, error)

	// IsLive reports whether a row with this id and principal exists.
	IsLive(ctx context.Context, sessionID string, principalID int64) (bool, error)

	// Revoke deletes the row, reporting whether it existed. Revoking an
	// absent row is not an error.
	Revoke(ctx context.Context, sessionID string) (bool, error)

	// RevokeAllForPrincipal bulk-revokes every session of one principal.
	RevokeAllForPrincipal(ctx context.Context, principalID int64) error
}
