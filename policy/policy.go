// Package policy holds the pure role-based access decisions. Nothing here
// touches storage or the clock; absence of a grant is denial, never an
// error condition beyond the returned sentinel.
package policy

import (
	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/users"
)

// CanPerform reports whether the caller's role is a member of the
// operation's allowed-role set.
func CanPerform(caller users.Role, allowed ...users.Role) bool {
	for _, role := range allowed {
		if caller == role {
			return true
		}
	}
	return false
}

// CanAssign governs the privileged create/update paths that assign a role
// to a target principal. Two stages: the caller must be in the operation's
// allowed-role set, and the target role must be exactly the manager role.
//
// Admin and customer are both forbidden targets - this is deliberately not
// a rank comparison, the two sit on the same side of the rule. Any value
// outside the closed set is denied as invalid.
func CanAssign(caller users.Role, target users.Role, allowed ...users.Role) error {
	if !CanPerform(caller, allowed...) {
		return apperrors.ErrAccessDenied
	}

	switch target {
	case users.RoleManager:
		return nil
	case users.RoleAdmin, users.RoleCustomer:
		return apperrors.Wrapf(apperrors.ErrAccessDenied, "can't assign role %s", target)
	default:
		return apperrors.ErrInvalidRole
	}
}
