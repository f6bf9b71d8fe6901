package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/policy"
	"github.com/userhub/auth-service/users"
)

func TestCanPerform(t *testing.T) {
	require.True(t, policy.CanPerform(users.RoleAdmin, users.RoleAdmin))
	require.True(t, policy.CanPerform(users.RoleManager, users.RoleAdmin, users.RoleManager))
	require.False(t, policy.CanPerform(users.RoleCustomer, users.RoleAdmin, users.RoleManager))
	require.False(t, policy.CanPerform(users.RoleAdmin))
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name    string
		caller  users.Role
		target  users.Role
		allowed []users.Role
		wantErr error
	}{
		{
			name:    "admin assigns manager",
			caller:  users.RoleAdmin,
			target:  users.RoleManager,
			allowed: []users.Role{users.RoleAdmin},
		},
		{
			name:    "admin cannot assign customer",
			caller:  users.RoleAdmin,
			target:  users.RoleCustomer,
			allowed: []users.Role{users.RoleAdmin},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "admin cannot assign admin",
			caller:  users.RoleAdmin,
			target:  users.RoleAdmin,
			allowed: []users.Role{users.RoleAdmin},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "manager not in allowed set",
			caller:  users.RoleManager,
			target:  users.RoleManager,
			allowed: []users.Role{users.RoleAdmin},
			wantErr: apperrors.ErrAccessDenied,
		},
		{
			name:    "manager allowed on update path",
			caller:  users.RoleManager,
			target:  users.RoleManager,
			allowed: []users.Role{users.RoleAdmin, users.RoleManager},
		},
		{
			name:    "unknown target role is invalid",
			caller:  users.RoleAdmin,
			target:  users.Role("owner"),
			allowed: []users.Role{users.RoleAdmin},
			wantErr: apperrors.ErrInvalidRole,
		},
		{
			name:    "customer caller denied before target check",
			caller:  users.RoleCustomer,
			target:  users.Role("owner"),
			allowed: []users.Role{users.RoleAdmin},
			wantErr: apperrors.ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CanAssign(tt.caller, tt.target, tt.allowed...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
