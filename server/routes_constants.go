package server

const (
	RouteAuthRegister       = "/auth/register"
	RouteAuthLogin          = "/auth/login"
	RouteAuthRefresh        = "/auth/refresh"
	RouteAuthLogout         = "/auth/logout"
	RouteAuthSelf           = "/auth/self"
	RouteAuthUpdate         = "/auth/update"
	RouteAuthChangePassword = "/auth/change-password"
	RouteAuthDelete         = "/auth/delete"

	RouteUsers    = "/users"
	RouteUsersID  = "/users/{id}"
	RouteTenants  = "/tenants"
	RouteTenantID = "/tenants/{id}"

	RouteWellKnownJWKS = "/.well-known/jwks.json"
)
