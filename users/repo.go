package users

import "context"

// Repo is the persistence boundary for user records. Implementations must
// return apperrors.ErrUserNotFound for missing rows and wrap any other
// persistence failure in apperrors.ErrStorageUnavailable.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}
