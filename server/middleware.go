package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/policy"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyAccessClaims stores the verified access token claims
	ContextKeyAccessClaims ContextKey = "access_claims"
	// ContextKeyRefreshClaims stores the verified refresh token claims
	ContextKeyRefreshClaims ContextKey = "refresh_claims"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is the base chain every route runs through.
func (s *Server) APIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.RecoverMiddleware,
		s.LoggingMiddleware,
	}
}

// AuthMiddleware is the chain for routes requiring a verified access token.
// Extra middleware (role guards) runs after authentication.
func (s *Server) AuthMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chain := append(s.APIMiddleware(), s.Authenticate)
	return append(chain, mw...)
}

// RefreshMiddleware is the chain for routes driven by the refresh token
// cookie rather than the access token.
func (s *Server) RefreshMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.APIMiddleware(), s.ValidateRefreshToken)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		}
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next(w, r)
	}
}

// Authenticate validates the access token. The Authorization header is
// checked before the accessToken cookie, so API clients can override a
// stale browser cookie.
func (s *Server) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := bearerToken(r)
		if rawToken == "" {
			if cookie, err := r.Cookie(accessTokenCookie); err == nil {
				rawToken = cookie.Value
			}
		}
		if rawToken == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.verifier.VerifyAccess(r.Context(), rawToken)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAccessClaims, claims)
		next(w, r.WithContext(ctx))
	}
}

// ValidateRefreshToken validates the refreshToken cookie, including the
// session liveness check behind it. Access tokens are not accepted here.
func (s *Server) ValidateRefreshToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshTokenCookie)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, "refresh token required")
			return
		}

		claims, err := s.verifier.VerifyRefresh(r.Context(), cookie.Value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyRefreshClaims, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole guards a route behind the caller's role claim. Chain after
// Authenticate.
func (s *Server) RequireRole(allowed ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := accessClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !policy.CanPerform(claims.Role, allowed...) {
				s.writeError(w, r, apperrors.ErrAccessDenied)
				return
			}
			next(w, r)
		}
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func accessClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(ContextKeyAccessClaims).(*token.AccessClaims)
	return claims, ok
}

func refreshClaimsFromContext(ctx context.Context) (*token.RefreshClaims, bool) {
	claims, ok := ctx.Value(ContextKeyRefreshClaims).(*token.RefreshClaims)
	return claims, ok
}
