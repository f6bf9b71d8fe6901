package users

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "github.com/userhub/auth-service/internal/errors"
)

// CreateParams carries the fields needed to create a user record.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      Role
	TenantID  *int64
}

// UpdateParams carries the mutable fields of a user record. Role and
// TenantID are only applied on the privileged admin path.
type UpdateParams struct {
	FirstName string
	LastName  string
	Email     string
	Role      Role
	TenantID  *int64
}

// Directory manages user records. It owns the email-uniqueness and
// manager-requires-tenant rules; callers supply already-authorized input.
type Directory struct {
	repo Repo
	log  zerolog.Logger
}

// NewDirectory creates a user directory backed by the given repository.
func NewDirectory(repo Repo, log zerolog.Logger) *Directory {
	return &Directory{repo: repo, log: log}
}

// Create stores a new user with a hashed password. A manager must carry a
// tenant reference; a duplicate email is a validation failure.
func (d *Directory) Create(ctx context.Context, params CreateParams) (*User, error) {
	if params.Role == RoleManager && params.TenantID == nil {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "tenantId is required for manager")
	}

	existing, err := d.repo.GetByEmail(ctx, params.Email)
	if err != nil && !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.Wrapf(err, "users.Directory.Create GetByEmail")
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.Create HashPassword")
	}

	user := &User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         params.Role,
		TenantID:     params.TenantID,
	}
	if err := d.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.Create")
	}

	d.log.Info().Int64("id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

// GetByEmail returns the user with the given email, password hash included.
func (d *Directory) GetByEmail(ctx context.Context, email string) (*User, error) {
	return d.repo.GetByEmail(ctx, email)
}

// GetByID returns the user with the given id.
func (d *Directory) GetByID(ctx context.Context, id int64) (*User, error) {
	return d.repo.GetByID(ctx, id)
}

// List returns a page of users.
func (d *Directory) List(ctx context.Context, offset, limit int) ([]*User, error) {
	return d.repo.List(ctx, offset, limit)
}

// Update applies the privileged update path, including role and tenant
// changes. The manager-requires-tenant rule holds on update as well.
func (d *Directory) Update(ctx context.Context, id int64, params UpdateParams) (*User, error) {
	if params.Role == RoleManager && params.TenantID == nil {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "tenantId is required for manager")
	}

	user, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.Update GetByID")
	}

	user.FirstName = params.FirstName
	user.LastName = params.LastName
	user.Email = params.Email
	user.Role = params.Role
	user.TenantID = params.TenantID

	if err := d.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.Update")
	}

	d.log.Info().Int64("id", id).Msg("user updated")
	return user, nil
}

// UpdateProfile applies the self-service update path: name and email only,
// never role or tenant.
func (d *Directory) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (*User, error) {
	user, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.UpdateProfile GetByID")
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email

	if err := d.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Wrapf(err, "users.Directory.UpdateProfile")
	}
	return user, nil
}

// UpdatePassword stores a new password hash for the user.
func (d *Directory) UpdatePassword(ctx context.Context, id int64, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return apperrors.Wrapf(err, "users.Directory.UpdatePassword HashPassword")
	}
	if err := d.repo.UpdatePassword(ctx, id, hash); err != nil {
		return apperrors.Wrapf(err, "users.Directory.UpdatePassword")
	}
	d.log.Info().Int64("id", id).Msg("user password updated")
	return nil
}

// Delete removes the user record.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrapf(err, "users.Directory.Delete")
	}
	d.log.Info().Int64("id", id).Msg("user deleted")
	return nil
}
