package server

import (
	"encoding/json"
	"net/http"

	"github.com/userhub/auth-service/auth"
	apperrors "github.com/userhub/auth-service/internal/errors"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type errorResponse struct {
	Error string `json:"error"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError translates the error taxonomy to HTTP statuses. A revoked
// token and an invalid one both surface as 401 but are logged apart, since
// a replayed refresh token is a signal worth noticing.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidation),
		apperrors.Is(err, apperrors.ErrInvalidRole):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrEmailTaken):
		writeJSONError(w, http.StatusBadRequest, "email already exists")
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "email or password does not match")
	case apperrors.Is(err, apperrors.ErrTokenRevoked):
		s.log.Warn().Str("path", r.URL.Path).Err(err).Msg("revoked token presented")
		writeJSONError(w, http.StatusUnauthorized, "token has been revoked")
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		writeJSONError(w, http.StatusUnauthorized, "invalid token")
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		writeJSONError(w, http.StatusForbidden, "access denied")
	case apperrors.Is(err, apperrors.ErrUserNotFound),
		apperrors.Is(err, apperrors.ErrTenantNotFound),
		apperrors.Is(err, apperrors.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error().Str("path", r.URL.Path).Err(err).Msg("request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) setAuthCookies(w http.ResponseWriter, creds *auth.Credentials) {
	authCfg := s.config
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    creds.AccessToken,
		Path:     "/",
		Domain:   authCfg.GetCookieDomain(),
		MaxAge:   int(authCfg.GetAccessTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   authCfg.GetCookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    creds.RefreshToken,
		Path:     "/",
		Domain:   authCfg.GetCookieDomain(),
		MaxAge:   int(authCfg.GetRefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   authCfg.GetCookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   s.config.GetCookieDomain(),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.config.GetCookieSecure(),
			SameSite: http.SameSiteStrictMode,
		})
	}
}
