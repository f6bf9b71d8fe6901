package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/auth-service/internal/config"
	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
	"github.com/userhub/auth-service/token/keys"
)

// Issuer mints the two cooperating credentials. Access tokens are
// self-contained and side-effect free; issuing a refresh token first creates
// the durable session row that makes it revocable.
type Issuer struct {
	accessSigner  Signer
	refreshSigner Signer
	store         sessions.Store
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	nowTime       func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithIssuerNowTime sets the now time function (primarily for testing)
func WithIssuerNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// NewIssuer creates a credential issuer from resolved key material.
func NewIssuer(resolver *keys.Resolver, store sessions.Store, cfg config.AuthConfig, options ...IssuerOption) (*Issuer, error) {
	keyPair, err := resolver.AccessKeyPair()
	if err != nil {
		return nil, err
	}
	secret, err := resolver.RefreshSecret()
	if err != nil {
		return nil, err
	}

	issuer := &Issuer{
		accessSigner:  NewKeyPairSigner(keyPair),
		refreshSigner: NewHMACSigner(secret),
		store:         store,
		issuer:        cfg.GetIssuer(),
		accessTTL:     cfg.GetAccessTokenTTL(),
		refreshTTL:    cfg.GetRefreshTokenTTL(),
		nowTime:       time.Now,
	}

	for _, opt := range options {
		opt(issuer)
	}

	return issuer, nil
}

// IssueAccessToken signs a short-lived RS256 token carrying the claims.
// No state is touched; validity is signature and expiry alone.
func (i *Issuer) IssueAccessToken(claims AccessClaims) (string, error) {
	now := i.nowTime()
	return i.accessSigner.Sign(jwt.MapClaims{
		"sub":  subjectString(claims.Subject),
		"role": string(claims.Role),
		"iss":  i.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(i.accessTTL).Unix(),
	})
}

// IssueRefreshToken creates a session row for the principal and signs a
// long-lived HS256 token whose jti is the new session id.
func (i *Issuer) IssueRefreshToken(ctx context.Context, claims AccessClaims) (string, error) {
	now := i.nowTime()
	expiresAt := now.Add(i.refreshTTL)

	sessionID, err := i.store.Create(ctx, claims.Subject, expiresAt)
	if err != nil {
		return "", apperrors.Wrapf(err, "token.Issuer.IssueRefreshToken store.Create")
	}

	signedToken, err := i.refreshSigner.Sign(jwt.MapClaims{
		"sub":  subjectString(claims.Subject),
		"role": string(claims.Role),
		"iss":  i.issuer,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
		"jti":  sessionID,
	})
	if err != nil {
		// Best effort: don't leave an orphaned session behind an
		// unissuable token.
		_, _ = i.store.Revoke(ctx, sessionID)
		return "", err
	}

	return signedToken, nil
}
