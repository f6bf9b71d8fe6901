package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/internal/redisstore"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redisstore.SessionStore) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, redisstore.NewSessionStore(client)
}

func TestSessionLifecycle(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 42, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	live, err := store.IsLive(ctx, id, 42)
	require.NoError(t, err)
	require.True(t, live)

	// Wrong principal is not live even though the row exists.
	live, err = store.IsLive(ctx, id, 43)
	require.NoError(t, err)
	require.False(t, live)

	removed, err := store.Revoke(ctx, id)
	require.NoError(t, err)
	require.True(t, removed)

	live, err = store.IsLive(ctx, id, 42)
	require.NoError(t, err)
	require.False(t, live)
}

func TestRevokeConsumesOnce(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)

	removed, err := store.Revoke(ctx, id)
	require.NoError(t, err)
	require.True(t, removed)

	// Second revoke is idempotent but reports nothing removed.
	removed, err = store.Revoke(ctx, id)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestSessionExpires(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 7, time.Now().Add(time.Minute))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	live, err := store.IsLive(ctx, id, 7)
	require.NoError(t, err)
	require.False(t, live)
}

func TestRevokeAllForPrincipal(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)
	second, err := store.Create(ctx, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)
	other, err := store.Create(ctx, 8, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, store.RevokeAllForPrincipal(ctx, 7))

	for _, id := range []string{first, second} {
		live, err := store.IsLive(ctx, id, 7)
		require.NoError(t, err)
		require.False(t, live)
	}

	live, err := store.IsLive(ctx, other, 8)
	require.NoError(t, err)
	require.True(t, live)
}

func TestStorageErrorSurfaces(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)

	mr.Close()

	_, err = store.IsLive(ctx, id, 7)
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
