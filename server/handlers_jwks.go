package server

import "net/http"

// JWKSHandler publishes the access-token verification keys. The configured
// JWKS URI may point back at this endpoint, making the service its own
// key authority.
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jwks, err := s.resolver.JWKS()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		writeJSON(w, http.StatusOK, jwks)
	}
}
