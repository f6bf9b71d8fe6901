package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/userhub/auth-service/auth"
	"github.com/userhub/auth-service/internal/config"
	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions/storefake"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/token/keys"
	"github.com/userhub/auth-service/users"
	fakeuserrepo "github.com/userhub/auth-service/users/repofake"
)

const (
	testEmail    = "john.doe@example.com"
	testPassword = "Password123"
)

type authFixture struct {
	userRepo  *fakeuserrepo.FakeUserRepo
	directory *users.Directory
	store     *storefake.FakeStore
	verifier  *token.Verifier
	service   *auth.Service
}

func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	keyPair, err := keys.GenerateRSAKeyPair("test-key-1", 2048)
	require.NoError(t, err)
	resolver := keys.NewStaticResolver(keyPair, "test-refresh-secret")

	userRepo := fakeuserrepo.NewFakeUserRepo()
	directory := users.NewDirectory(userRepo, zerolog.Nop())
	store := storefake.NewFakeStore()

	issuer, err := token.NewIssuer(resolver, store, config.Auth{})
	require.NoError(t, err)
	verifier, err := token.NewVerifier(resolver, store, config.Auth{})
	require.NoError(t, err)

	service, err := auth.NewService(directory, store, issuer, zerolog.Nop())
	require.NoError(t, err)

	return &authFixture{
		userRepo:  userRepo,
		directory: directory,
		store:     store,
		verifier:  verifier,
		service:   service,
	}
}

func (f *authFixture) register(t *testing.T) *auth.Credentials {
	t.Helper()

	creds, err := f.service.Register(context.Background(), auth.RegisterParams{
		FirstName: "John",
		LastName:  "Doe",
		Email:     testEmail,
		Password:  testPassword,
	})
	require.NoError(t, err)
	return creds
}

func (f *authFixture) refreshClaims(t *testing.T, rawToken string) token.RefreshClaims {
	t.Helper()

	claims, err := f.verifier.VerifyRefresh(context.Background(), rawToken)
	require.NoError(t, err)
	return *claims
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	f := setupAuthFixture(t)
	creds := f.register(t)

	require.NotZero(t, creds.ID)
	require.NotEmpty(t, creds.AccessToken)
	require.NotEmpty(t, creds.RefreshToken)

	user, err := f.directory.GetByID(context.Background(), creds.ID)
	require.NoError(t, err)
	require.Equal(t, users.RoleCustomer, user.Role)
	require.Equal(t, 1, f.store.Count(creds.ID))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := setupAuthFixture(t)
	f.register(t)

	_, err := f.service.Register(context.Background(), auth.RegisterParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     testEmail,
		Password:  testPassword,
	})
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	f := setupAuthFixture(t)
	registered := f.register(t)

	creds, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, registered.ID, creds.ID)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	f := setupAuthFixture(t)
	f.register(t)

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPassErr := f.service.Login(context.Background(), testEmail, "WrongPassword1")
	require.ErrorIs(t, wrongPassErr, apperrors.ErrInvalidCredentials)

	_, unknownErr := f.service.Login(context.Background(), "nobody@example.com", testPassword)
	require.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)

	require.Equal(t, wrongPassErr, unknownErr)
}

func TestRefreshRotatesSession(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	oldClaims := f.refreshClaims(t, creds.RefreshToken)

	rotated, err := f.service.Refresh(ctx, oldClaims)
	require.NoError(t, err)
	require.Equal(t, creds.ID, rotated.ID)

	// Exactly one live session remains and the old token is dead.
	require.Equal(t, 1, f.store.Count(creds.ID))

	_, err = f.verifier.VerifyRefresh(ctx, creds.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = f.verifier.VerifyRefresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshReplayFails(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	oldClaims := f.refreshClaims(t, creds.RefreshToken)

	_, err := f.service.Refresh(ctx, oldClaims)
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, oldClaims)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	require.Equal(t, 1, f.store.Count(creds.ID))
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	claims := f.refreshClaims(t, creds.RefreshToken)

	const racers = 8
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for n := 0; n < racers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.service.Refresh(ctx, claims)
		}(n)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
		}
	}
	require.Equal(t, 1, winners)
	require.Equal(t, 1, f.store.Count(creds.ID))
}

func TestLogoutRevokesSessionIdempotently(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	claims := f.refreshClaims(t, creds.RefreshToken)

	require.NoError(t, f.service.Logout(ctx, claims))

	_, err := f.verifier.VerifyRefresh(ctx, creds.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// Second logout with the now-dead token behaves the same.
	require.NoError(t, f.service.Logout(ctx, claims))
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	claims := f.refreshClaims(t, creds.RefreshToken)

	require.NoError(t, f.service.Logout(ctx, claims))

	_, err := f.service.Refresh(ctx, claims)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshStorageErrorIsNotAuthFailure(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)
	claims := f.refreshClaims(t, creds.RefreshToken)

	f.store.FailNext = true
	_, err := f.service.Refresh(ctx, claims)
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	require.NotErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestChangePassword(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)

	err := f.service.ChangePassword(ctx, creds.ID, "WrongOld1", "NewPassword1")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = f.service.ChangePassword(ctx, creds.ID, testPassword, testPassword)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, f.service.ChangePassword(ctx, creds.ID, testPassword, "NewPassword1"))

	_, err = f.service.Login(ctx, testEmail, "NewPassword1")
	require.NoError(t, err)
	_, err = f.service.Login(ctx, testEmail, testPassword)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestDeleteAccountRevokesAllSessions(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()
	creds := f.register(t)

	// A second login gives the principal a second live session.
	second, err := f.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, 2, f.store.Count(creds.ID))

	require.NoError(t, f.service.DeleteAccount(ctx, creds.ID))
	require.Equal(t, 0, f.store.Count(creds.ID))

	_, err = f.verifier.VerifyRefresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = f.service.Login(ctx, testEmail, testPassword)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
