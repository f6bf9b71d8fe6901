package config

import (
	"strconv"
	"time"
)

// AuthConfig exposes the token and cookie settings for the credential core.
type AuthConfig interface {
	// GetIssuer returns the iss claim stamped into every token
	GetIssuer() string
	// GetJWKSURI returns the published key set used to verify access tokens
	GetJWKSURI() string
	// GetRefreshTokenSecret returns the shared secret for refresh tokens
	GetRefreshTokenSecret() string
	// GetAccessPrivateKeyPEM returns the PEM-encoded RSA signing key
	GetAccessPrivateKeyPEM() string
	GetAccessKeyID() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetCookieDomain() string
	GetCookieSecure() bool
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", "auth-service")
}

func (Auth) GetJWKSURI() string {
	return GetEnv("JWKS_URI", "http://localhost:5501/.well-known/jwks.json")
}

func (Auth) GetRefreshTokenSecret() string {
	return GetEnv("REFRESH_TOKEN_SECRET", "")
}

func (Auth) GetAccessPrivateKeyPEM() string {
	return GetEnv("ACCESS_PRIVATE_KEY_PEM", "")
}

func (Auth) GetAccessKeyID() string {
	return GetEnv("ACCESS_KEY_ID", "auth-service-key-1")
}

func (Auth) GetAccessTokenTTL() time.Duration {
	return durationEnv("ACCESS_TOKEN_TTL", time.Hour)
}

func (Auth) GetRefreshTokenTTL() time.Duration {
	return durationEnv("REFRESH_TOKEN_TTL", 365*24*time.Hour)
}

func (Auth) GetCookieDomain() string {
	return GetEnv("COOKIE_DOMAIN", "localhost")
}

func (Auth) GetCookieSecure() bool {
	secure, err := strconv.ParseBool(GetEnv("COOKIE_SECURE", "false"))
	if err != nil {
		return false
	}
	return secure
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
