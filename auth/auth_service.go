package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/users"
)

// RegisterParams carries the self-service registration input.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Credentials is the outcome of a successful register, login or refresh:
// the principal id and a fresh token pair.
type Credentials struct {
	ID           int64
	AccessToken  string
	RefreshToken string
}

// Service orchestrates the authentication flows and exclusively owns the
// session lifecycle: every session row is created through its token issuer
// and deleted through refresh rotation, logout or account deletion.
type Service struct {
	directory *users.Directory
	store     sessions.Store
	issuer    *token.Issuer
	log       zerolog.Logger
}

// NewService initializes the authentication flow service with required
// dependencies.
func NewService(directory *users.Directory, store sessions.Store, issuer *token.Issuer, log zerolog.Logger) (*Service, error) {
	if directory == nil {
		return nil, errors.New("[auth.NewService] user directory is required")
	}
	if store == nil {
		return nil, errors.New("[auth.NewService] session store is required")
	}
	if issuer == nil {
		return nil, errors.New("[auth.NewService] token issuer is required")
	}

	return &Service{
		directory: directory,
		store:     store,
		issuer:    issuer,
		log:       log,
	}, nil
}

// Register creates a principal with the default customer role and issues a
// fresh token pair for it.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Credentials, error) {
	user, err := s.directory.Create(ctx, users.CreateParams{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Password:  params.Password,
		Role:      users.RoleCustomer,
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "[auth.Service.Register] directory.Create")
	}

	s.log.Info().Int64("id", user.ID).Msg("user has been registered")
	return s.issuePair(ctx, user)
}

// Login verifies the email/password pair and issues tokens. An unknown
// email and a wrong password collapse into the same failure so callers
// can't probe which identifiers exist.
func (s *Service) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := s.directory.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrapf(err, "[auth.Service.Login] directory.GetByEmail")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.log.Info().Int64("id", user.ID).Msg("user has been logged in")
	return s.issuePair(ctx, user)
}

// Refresh rotates a verified refresh token: its session is consumed and a
// new session plus token pair is minted for the same subject. Consuming is
// atomic in the store, so when two calls race on one token at most one
// wins; the loser's token counts as revoked, never as a second session.
func (s *Service) Refresh(ctx context.Context, claims token.RefreshClaims) (*Credentials, error) {
	user, err := s.directory.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "subject no longer registered")
		}
		return nil, apperrors.Wrapf(err, "[auth.Service.Refresh] directory.GetByID")
	}

	removed, err := s.store.Revoke(ctx, claims.SessionID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[auth.Service.Refresh] store.Revoke")
	}
	if !removed {
		// Lost the race or the token was replayed after rotation.
		return nil, apperrors.Wrapf(apperrors.ErrTokenRevoked, "session %s already consumed", claims.SessionID)
	}

	s.log.Info().Int64("id", user.ID).Msg("token has been refreshed")
	return s.issuePair(ctx, user)
}

// Logout revokes the session behind a presented refresh token. Revoking an
// already-gone session succeeds; logout is idempotent.
func (s *Service) Logout(ctx context.Context, claims token.RefreshClaims) error {
	if _, err := s.store.Revoke(ctx, claims.SessionID); err != nil {
		return apperrors.Wrapf(err, "[auth.Service.Logout] store.Revoke")
	}

	s.log.Info().Int64("id", claims.Subject).Msg("user has been logged out")
	return nil
}

// Self returns the authenticated principal's record.
func (s *Service) Self(ctx context.Context, principalID int64) (*users.User, error) {
	return s.directory.GetByID(ctx, principalID)
}

// ChangePassword requires proof of the old password before storing a new
// one. Reusing the old password is rejected.
func (s *Service) ChangePassword(ctx context.Context, principalID int64, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return apperrors.Wrapf(apperrors.ErrValidation, "new password must differ from the old one")
	}

	user, err := s.directory.GetByID(ctx, principalID)
	if err != nil {
		return apperrors.Wrapf(err, "[auth.Service.ChangePassword] directory.GetByID")
	}

	if !users.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperrors.Wrapf(apperrors.ErrInvalidCredentials, "wrong old password")
	}

	return s.directory.UpdatePassword(ctx, principalID, newPassword)
}

// DeleteAccount removes the principal and bulk-revokes every session it
// owns, so no outstanding refresh token survives the account.
func (s *Service) DeleteAccount(ctx context.Context, principalID int64) error {
	if err := s.store.RevokeAllForPrincipal(ctx, principalID); err != nil {
		return apperrors.Wrapf(err, "[auth.Service.DeleteAccount] store.RevokeAllForPrincipal")
	}
	if err := s.directory.Delete(ctx, principalID); err != nil {
		return apperrors.Wrapf(err, "[auth.Service.DeleteAccount] directory.Delete")
	}

	s.log.Info().Int64("id", principalID).Msg("user account has been deleted")
	return nil
}

func (s *Service) issuePair(ctx context.Context, user *users.User) (*Credentials, error) {
	claims := token.AccessClaims{Subject: user.ID, Role: user.Role}

	accessToken, err := s.issuer.IssueAccessToken(claims)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[auth.Service] IssueAccessToken")
	}

	refreshToken, err := s.issuer.IssueRefreshToken(ctx, claims)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[auth.Service] IssueRefreshToken")
	}

	return &Credentials{
		ID:           user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
