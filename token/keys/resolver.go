package keys

import (
	"context"
	"crypto"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/userhub/auth-service/internal/config"
)

// Resolver hands out the key material for the two token pipelines: an RSA
// key pair for signing access tokens, a published key set for verifying
// them, and a shared secret for refresh tokens.
//
// The verification side goes through the configured JWKS URI rather than the
// local key pair so that verification keeps working across key rotation:
// oidc.RemoteKeySet caches the published set and refetches (rate limited)
// when it sees an unknown key id. Every accessor fails closed - a missing
// key is an error, never a bypass.
type Resolver struct {
	keyPair       *KeyPair
	keySet        oidc.KeySet
	refreshSecret []byte
}

// NewResolver builds a resolver from configuration. The access signing key
// is loaded from the configured PEM; outside production a fresh key pair is
// generated when none is configured. The refresh secret is mandatory.
func NewResolver(ctx context.Context, cfg config.Config) (*Resolver, error) {
	secret := cfg.GetRefreshTokenSecret()
	if secret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET is not configured")
	}

	var keyPair *KeyPair
	var err error
	if pemData := cfg.GetAccessPrivateKeyPEM(); pemData != "" {
		keyPair, err = LoadKeyPairFromPEM(cfg.GetAccessKeyID(), pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to load access signing key: %w", err)
		}
	} else {
		if cfg.GetEnv() == "PROD" {
			return nil, fmt.Errorf("ACCESS_PRIVATE_KEY_PEM is not configured")
		}
		keyPair, err = GenerateRSAKeyPair(cfg.GetAccessKeyID(), 2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate access signing key: %w", err)
		}
	}

	return &Resolver{
		keyPair:       keyPair,
		keySet:        oidc.NewRemoteKeySet(ctx, cfg.GetJWKSURI()),
		refreshSecret: []byte(secret),
	}, nil
}

// NewStaticResolver builds a resolver whose verification side uses the key
// pair's own public key instead of a remote key set. Used in tests.
func NewStaticResolver(keyPair *KeyPair, refreshSecret string) *Resolver {
	return &Resolver{
		keyPair:       keyPair,
		keySet:        &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{keyPair.PublicKey}},
		refreshSecret: []byte(refreshSecret),
	}
}

// AccessKeyPair returns the key pair used to sign access tokens.
func (r *Resolver) AccessKeyPair() (*KeyPair, error) {
	if r == nil || r.keyPair == nil {
		return nil, fmt.Errorf("no access signing key resolved")
	}
	return r.keyPair, nil
}

// AccessKeySet returns the key set used to verify access tokens.
func (r *Resolver) AccessKeySet() (oidc.KeySet, error) {
	if r == nil || r.keySet == nil {
		return nil, fmt.Errorf("no access verification key set resolved")
	}
	return r.keySet, nil
}

// RefreshSecret returns the shared secret for refresh tokens.
func (r *Resolver) RefreshSecret() ([]byte, error) {
	if r == nil || len(r.refreshSecret) == 0 {
		return nil, fmt.Errorf("no refresh token secret resolved")
	}
	return r.refreshSecret, nil
}

// JWKS exports the public half of the signing key as a JSON Web Key Set,
// for serving at the published JWKS endpoint.
func (r *Resolver) JWKS() (*JWKS, error) {
	keyPair, err := r.AccessKeyPair()
	if err != nil {
		return nil, err
	}
	jwk, err := keyPair.ToJWK()
	if err != nil {
		return nil, fmt.Errorf("failed to convert key to JWK: %w", err)
	}
	return &JWKS{Keys: []JWK{*jwk}}, nil
}
