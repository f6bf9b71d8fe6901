package server

import (
	"net/http"

	"github.com/userhub/auth-service/auth"
)

// RegisterHandler creates a customer account and logs it straight in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		creds, err := s.auth.Register(r.Context(), auth.RegisterParams{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.setAuthCookies(w, creds)
		writeJSON(w, http.StatusCreated, idResponse{ID: creds.ID})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		creds, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.setAuthCookies(w, creds)
		writeJSON(w, http.StatusOK, idResponse{ID: creds.ID})
	}
}

// RefreshHandler rotates the presented refresh token for a new pair. The
// old token is consumed even if the caller discards the response.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := refreshClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "refresh token required")
			return
		}

		creds, err := s.auth.Refresh(r.Context(), *claims)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.setAuthCookies(w, creds)
		writeJSON(w, http.StatusOK, idResponse{ID: creds.ID})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := refreshClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "refresh token required")
			return
		}

		if err := s.auth.Logout(r.Context(), *claims); err != nil {
			s.writeError(w, r, err)
			return
		}

		s.clearAuthCookies(w)
		writeJSON(w, http.StatusOK, idResponse{ID: claims.Subject})
	}
}

func (s *Server) SelfHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := accessClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.auth.Self(r.Context(), claims.Subject)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := accessClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req updateProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.directory.UpdateProfile(r.Context(), claims.Subject, req.FirstName, req.LastName, req.Email)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := accessClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req changePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.auth.ChangePassword(r.Context(), claims.Subject, req.OldPassword, req.NewPassword); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: claims.Subject})
	}
}

// DeleteAccountHandler removes the caller's account. Every session the
// principal owns is revoked, so outstanding refresh tokens die with it.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := accessClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := s.auth.DeleteAccount(r.Context(), claims.Subject); err != nil {
			s.writeError(w, r, err)
			return
		}

		s.clearAuthCookies(w)
		writeJSON(w, http.StatusOK, idResponse{ID: claims.Subject})
	}
}
