package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/users"
)

const uniqueViolationCode = "23505"

var _ users.Repo = (*UserRepo)(nil)

// UserRepo is the Postgres-backed users.Repo.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, email, password_hash, role, tenant_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.TenantID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		// The directory pre-checks emails, but two concurrent creates
		// can still collide on the unique index.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrEmailTaken
		}
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "insert user: %v", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	const query = `
        SELECT id, first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	const query = `
        SELECT id, first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	const query = `
        SELECT id, first_name, last_name, email, password_hash, role, tenant_id, created_at, updated_at
        FROM users ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "list users: %v", err)
	}
	defer rows.Close()

	list := make([]*users.User, 0)
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "list users: %v", err)
	}
	return list, nil
}

func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, email=$3, role=$4, tenant_id=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		string(user.Role),
		user.TenantID,
		user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrEmailTaken
		}
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "update user: %v", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "update password: %v", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete user: %v", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.TenantID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "scan user: %v", err)
	}
	user.Role = users.Role(role)
	return &user, nil
}
