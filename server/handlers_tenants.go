package server

import (
	"net/http"

	"github.com/userhub/auth-service/tenants"
)

func (s *Server) CreateTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenantRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		tenant := &tenants.Tenant{Name: req.Name, Address: req.Address}
		if err := s.tenants.Create(r.Context(), tenant); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tenant)
	}
}

func (s *Server) ListTenantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pagination(r)
		list, err := s.tenants.List(r.Context(), offset, limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		tenant, err := s.tenants.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func (s *Server) UpdateTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var req tenantRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			s.writeError(w, r, err)
			return
		}

		tenant := &tenants.Tenant{ID: id, Name: req.Name, Address: req.Address}
		if err := s.tenants.Update(r.Context(), tenant); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func (s *Server) DeleteTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.tenants.Delete(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}
