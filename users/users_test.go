package users_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/users"
	"github.com/userhub/auth-service/users/repofake"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "manager", "customer"} {
		role, err := users.ParseRole(valid)
		require.NoError(t, err)
		require.True(t, role.Valid())
	}

	for _, invalid := range []string{"", "Admin", "superuser", "ADMIN"} {
		_, err := users.ParseRole(invalid)
		require.Error(t, err, invalid)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Password1"))

	require.Error(t, users.ValidatePasswordStrength("Pw1"))         // too short
	require.Error(t, users.ValidatePasswordStrength("password1"))   // no uppercase
	require.Error(t, users.ValidatePasswordStrength("PASSWORD1"))   // no lowercase
	require.Error(t, users.ValidatePasswordStrength("Passwordless")) // no number
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("Password1")
	require.NoError(t, err)
	require.NotEqual(t, "Password1", hash)

	require.True(t, users.CheckPasswordHash("Password1", hash))
	require.False(t, users.CheckPasswordHash("Password2", hash))
}

func TestDirectoryCreate(t *testing.T) {
	ctx := context.Background()
	directory := users.NewDirectory(repofake.NewFakeUserRepo(), zerolog.Nop())

	user, err := directory.Create(ctx, users.CreateParams{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Password:  "Password1",
		Role:      users.RoleCustomer,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.True(t, users.CheckPasswordHash("Password1", user.PasswordHash))

	// Same email again
	_, err = directory.Create(ctx, users.CreateParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "john@example.com",
		Password:  "Password1",
		Role:      users.RoleCustomer,
	})
	require.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestDirectoryManagerRequiresTenant(t *testing.T) {
	ctx := context.Background()
	directory := users.NewDirectory(repofake.NewFakeUserRepo(), zerolog.Nop())

	_, err := directory.Create(ctx, users.CreateParams{
		FirstName: "Max",
		LastName:  "Manager",
		Email:     "max@example.com",
		Password:  "Password1",
		Role:      users.RoleManager,
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	tenantID := int64(3)
	manager, err := directory.Create(ctx, users.CreateParams{
		FirstName: "Max",
		LastName:  "Manager",
		Email:     "max@example.com",
		Password:  "Password1",
		Role:      users.RoleManager,
		TenantID:  &tenantID,
	})
	require.NoError(t, err)
	require.Equal(t, users.RoleManager, manager.Role)

	// Dropping the tenant on update is rejected the same way.
	_, err = directory.Update(ctx, manager.ID, users.UpdateParams{
		FirstName: "Max",
		LastName:  "Manager",
		Email:     "max@example.com",
		Role:      users.RoleManager,
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
