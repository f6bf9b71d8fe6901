// Package server exposes the authentication core over HTTP. Handlers stay
// thin: decode, call the service layer, translate errors to status codes.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userhub/auth-service/auth"
	"github.com/userhub/auth-service/internal/config"
	"github.com/userhub/auth-service/tenants"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/token/keys"
	"github.com/userhub/auth-service/users"
)

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	auth      *auth.Service
	directory *users.Directory
	tenants   tenants.Repo
	verifier  *token.Verifier
	resolver  *keys.Resolver
	log       zerolog.Logger
}

func New(
	cfg config.Config,
	authService *auth.Service,
	directory *users.Directory,
	tenantRepo tenants.Repo,
	verifier *token.Verifier,
	resolver *keys.Resolver,
	log zerolog.Logger,
) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("[Server New] user directory is required")
	}
	if tenantRepo == nil {
		return nil, fmt.Errorf("[Server New] tenant repo is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("[Server New] token verifier is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("[Server New] key resolver is required")
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      authService,
		directory: directory,
		tenants:   tenantRepo,
		verifier:  verifier,
		resolver:  resolver,
		log:       log,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			s.log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
