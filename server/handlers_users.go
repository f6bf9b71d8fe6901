package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/policy"
	"github.com/userhub/auth-service/users"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrValidation, "invalid id")
	}
	return id, nil
}

// CreateUserHandler is the privileged create path. Only admins may call
// it, and the only role they may hand out is manager.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := accessClaimsFromContext(r.Context())

		var req userRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(true); err != nil {
			s.writeError(w, r, err)
			return
		}

		targetRole := users.Role(req.Role)
		if err := policy.CanAssign(claims.Role, targetRole, users.RoleAdmin); err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.directory.Create(r.Context(), users.CreateParams{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      targetRole,
			TenantID:  req.TenantID,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pagination(r)
		list, err := s.directory.List(r.Context(), offset, limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.directory.GetByID(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateUserHandler is the privileged update path, open to admins and
// managers. The target role check still only admits manager.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := accessClaimsFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var req userRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(false); err != nil {
			s.writeError(w, r, err)
			return
		}

		targetRole := users.Role(req.Role)
		if err := policy.CanAssign(claims.Role, targetRole, users.RoleAdmin, users.RoleManager); err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.directory.Update(r.Context(), id, users.UpdateParams{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Role:      targetRole,
			TenantID:  req.TenantID,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.directory.Delete(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}

func pagination(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return offset, limit
}
