package token

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/auth-service/internal/config"
	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
	"github.com/userhub/auth-service/token/keys"
	"github.com/userhub/auth-service/users"
)

// Verifier authenticates inbound tokens. The access pipeline is pure - key
// set, expiry, issuer - while the refresh pipeline additionally checks the
// session row, which is what makes refresh tokens revocable.
//
// Outcomes are kept distinct: apperrors.ErrInvalidToken covers malformed,
// mis-signed or expired tokens; apperrors.ErrTokenRevoked means the token
// verified but its session is gone; apperrors.ErrStorageUnavailable means
// the liveness check itself failed and the caller must fail closed.
type Verifier struct {
	keySet        oidc.KeySet
	refreshSigner Signer
	store         sessions.Store
	issuer        string
	nowTime       func() time.Time
}

// VerifierOption defines a function type to modify the Verifier instance.
type VerifierOption func(*Verifier)

// WithVerifierNowTime sets the now time function (primarily for testing)
func WithVerifierNowTime(nowFunc func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.nowTime = nowFunc
	}
}

// NewVerifier creates a credential verifier from resolved key material.
func NewVerifier(resolver *keys.Resolver, store sessions.Store, cfg config.AuthConfig, options ...VerifierOption) (*Verifier, error) {
	keySet, err := resolver.AccessKeySet()
	if err != nil {
		return nil, err
	}
	secret, err := resolver.RefreshSecret()
	if err != nil {
		return nil, err
	}

	verifier := &Verifier{
		keySet:        keySet,
		refreshSigner: NewHMACSigner(secret),
		store:         store,
		issuer:        cfg.GetIssuer(),
		nowTime:       time.Now,
	}

	for _, opt := range options {
		opt(verifier)
	}

	return verifier, nil
}

// accessPayload mirrors the claims an access token carries.
type accessPayload struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	Iss  string `json:"iss"`
	Exp  int64  `json:"exp"`
}

// VerifyAccess checks an access token against the resolved key set, expiry
// and issuer. No store access on this path.
func (v *Verifier) VerifyAccess(ctx context.Context, rawToken string) (*AccessClaims, error) {
	payloadBytes, err := v.keySet.VerifySignature(ctx, rawToken)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "access token signature: %v", err)
	}

	var payload accessPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "access token claims: %v", err)
	}

	if payload.Exp == 0 || v.nowTime().Unix() > payload.Exp {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "access token expired")
	}
	if payload.Iss != v.issuer {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "unexpected issuer %q", payload.Iss)
	}

	subject, err := parseSubject(payload.Sub)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "bad subject %q", payload.Sub)
	}
	role, err := users.ParseRole(payload.Role)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "bad role claim")
	}

	return &AccessClaims{Subject: subject, Role: role}, nil
}

// refreshJWTClaims carries the refresh token's registered claims plus role.
type refreshJWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// VerifyRefresh checks a refresh token's signature, expiry and issuer, then
// requires a live session row matching its jti and subject. A verified
// token without a session is revoked, not invalid.
func (v *Verifier) VerifyRefresh(ctx context.Context, rawToken string) (*RefreshClaims, error) {
	var claims refreshJWTClaims
	parsed, err := jwt.ParseWithClaims(rawToken, &claims, v.refreshSigner.GetVerificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.nowTime),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "refresh token: %v", err)
	}

	subject, err := parseSubject(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "bad subject %q", claims.Subject)
	}
	role, err := users.ParseRole(claims.Role)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "bad role claim")
	}
	if claims.ID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "refresh token missing jti")
	}

	live, err := v.store.IsLive(ctx, claims.ID, subject)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "refresh liveness check: %v", err)
	}
	if !live {
		return nil, apperrors.Wrapf(apperrors.ErrTokenRevoked, "session %s", claims.ID)
	}

	return &RefreshClaims{
		AccessClaims: AccessClaims{Subject: subject, Role: role},
		SessionID:    claims.ID,
	}, nil
}
