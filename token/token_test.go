package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/userhub/auth-service/internal/config"
	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions/storefake"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/token/keys"
	"github.com/userhub/auth-service/users"
)

const testRefreshSecret = "test-refresh-secret"

type tokenFixture struct {
	store    *storefake.FakeStore
	issuer   *token.Issuer
	verifier *token.Verifier
	now      time.Time
}

func setupTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	keyPair, err := keys.GenerateRSAKeyPair("test-key-1", 2048)
	require.NoError(t, err)

	resolver := keys.NewStaticResolver(keyPair, testRefreshSecret)
	store := storefake.NewFakeStore()

	f := &tokenFixture{
		store: store,
		now:   time.Now(),
	}

	f.issuer, err = token.NewIssuer(resolver, store, config.Auth{},
		token.WithIssuerNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.verifier, err = token.NewVerifier(resolver, store, config.Auth{},
		token.WithVerifierNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	return f
}

func TestAccessTokenRoundTrip(t *testing.T) {
	f := setupTokenFixture(t)
	claims := token.AccessClaims{Subject: 42, Role: users.RoleCustomer}

	raw, err := f.issuer.IssueAccessToken(claims)
	require.NoError(t, err)

	verified, err := f.verifier.VerifyAccess(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, claims, *verified)
}

func TestAccessTokenExpires(t *testing.T) {
	f := setupTokenFixture(t)

	raw, err := f.issuer.IssueAccessToken(token.AccessClaims{Subject: 1, Role: users.RoleAdmin})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	_, err = f.verifier.VerifyAccess(context.Background(), raw)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAccessTokenWrongKeyRejected(t *testing.T) {
	f := setupTokenFixture(t)

	otherPair, err := keys.GenerateRSAKeyPair("other-key", 2048)
	require.NoError(t, err)
	otherResolver := keys.NewStaticResolver(otherPair, testRefreshSecret)

	otherIssuer, err := token.NewIssuer(otherResolver, f.store, config.Auth{})
	require.NoError(t, err)

	raw, err := otherIssuer.IssueAccessToken(token.AccessClaims{Subject: 1, Role: users.RoleAdmin})
	require.NoError(t, err)

	_, err = f.verifier.VerifyAccess(context.Background(), raw)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()
	claims := token.AccessClaims{Subject: 7, Role: users.RoleManager}

	raw, err := f.issuer.IssueRefreshToken(ctx, claims)
	require.NoError(t, err)

	verified, err := f.verifier.VerifyRefresh(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, claims, verified.AccessClaims)
	require.NotEmpty(t, verified.SessionID)

	live, err := f.store.IsLive(ctx, verified.SessionID, claims.Subject)
	require.NoError(t, err)
	require.True(t, live)
}

func TestRefreshTokenRevokedIsDistinctFromInvalid(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	raw, err := f.issuer.IssueRefreshToken(ctx, token.AccessClaims{Subject: 7, Role: users.RoleCustomer})
	require.NoError(t, err)

	verified, err := f.verifier.VerifyRefresh(ctx, raw)
	require.NoError(t, err)

	removed, err := f.store.Revoke(ctx, verified.SessionID)
	require.NoError(t, err)
	require.True(t, removed)

	_, err = f.verifier.VerifyRefresh(ctx, raw)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	require.NotErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshTokenTamperedRejected(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	raw, err := f.issuer.IssueRefreshToken(ctx, token.AccessClaims{Subject: 7, Role: users.RoleCustomer})
	require.NoError(t, err)

	tampered := raw[:len(raw)-2] + "xx"
	_, err = f.verifier.VerifyRefresh(ctx, tampered)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshTokenExpires(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	raw, err := f.issuer.IssueRefreshToken(ctx, token.AccessClaims{Subject: 7, Role: users.RoleCustomer})
	require.NoError(t, err)

	f.now = f.now.Add(366 * 24 * time.Hour)

	_, err = f.verifier.VerifyRefresh(ctx, raw)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshLivenessFailsClosedOnStorageError(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	raw, err := f.issuer.IssueRefreshToken(ctx, token.AccessClaims{Subject: 7, Role: users.RoleCustomer})
	require.NoError(t, err)

	f.store.FailNext = true
	_, err = f.verifier.VerifyRefresh(ctx, raw)
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestRefreshTokenForOtherPrincipalNotLive(t *testing.T) {
	f := setupTokenFixture(t)
	ctx := context.Background()

	raw, err := f.issuer.IssueRefreshToken(ctx, token.AccessClaims{Subject: 7, Role: users.RoleCustomer})
	require.NoError(t, err)

	verified, err := f.verifier.VerifyRefresh(ctx, raw)
	require.NoError(t, err)

	live, err := f.store.IsLive(ctx, verified.SessionID, 8)
	require.NoError(t, err)
	require.False(t, live)
}
