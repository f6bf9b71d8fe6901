package server

import "github.com/userhub/auth-service/users"

func (s *Server) initRoutes() {
	// Public auth endpoints
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// Refresh-token endpoints (refreshToken cookie, not the access token)
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.RefreshMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.RefreshMiddleware()...))

	// Access-token endpoints
	s.RegisterRouteHandler("GET "+RouteAuthSelf, ChainMiddleware(s.SelfHandler(), s.AuthMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteAuthUpdate, ChainMiddleware(s.UpdateProfileHandler(), s.AuthMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteAuthChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.AuthMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteAuthDelete, ChainMiddleware(s.DeleteAccountHandler(), s.AuthMiddleware()...))

	// User administration
	s.RegisterRouteHandler("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("GET "+RouteUsersID, ChainMiddleware(s.GetUserHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin, users.RoleManager))...))
	s.RegisterRouteHandler("PUT "+RouteUsersID, ChainMiddleware(s.UpdateUserHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin, users.RoleManager))...))
	s.RegisterRouteHandler("DELETE "+RouteUsersID, ChainMiddleware(s.DeleteUserHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))

	// Tenant administration
	s.RegisterRouteHandler("POST "+RouteTenants, ChainMiddleware(s.CreateTenantHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("GET "+RouteTenants, ChainMiddleware(s.ListTenantsHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("GET "+RouteTenantID, ChainMiddleware(s.GetTenantHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin, users.RoleManager))...))
	s.RegisterRouteHandler("PUT "+RouteTenantID, ChainMiddleware(s.UpdateTenantHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteHandler("DELETE "+RouteTenantID, ChainMiddleware(s.DeleteTenantHandler(), s.AuthMiddleware(s.RequireRole(users.RoleAdmin))...))

	// Key publication for access-token verification
	s.RegisterRouteHandler("GET "+RouteWellKnownJWKS, ChainMiddleware(s.JWKSHandler(), s.APIMiddleware()...))
}
