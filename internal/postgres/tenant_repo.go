package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/tenants"
)

var _ tenants.Repo = (*TenantRepo)(nil)

// TenantRepo is the Postgres-backed tenants.Repo.
type TenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepo(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

func (r *TenantRepo) Create(ctx context.Context, tenant *tenants.Tenant) error {
	const query = `
        INSERT INTO tenants (name, address)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, tenant.Name, tenant.Address).
		Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "insert tenant: %v", err)
	}
	return nil
}

func (r *TenantRepo) Get(ctx context.Context, id int64) (*tenants.Tenant, error) {
	const query = `SELECT id, name, address, created_at, updated_at FROM tenants WHERE id=$1`

	var tenant tenants.Tenant
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Address,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrTenantNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "select tenant: %v", err)
	}
	return &tenant, nil
}

func (r *TenantRepo) List(ctx context.Context, offset, limit int) ([]*tenants.Tenant, error) {
	const query = `SELECT id, name, address, created_at, updated_at FROM tenants ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "list tenants: %v", err)
	}
	defer rows.Close()

	list := make([]*tenants.Tenant, 0)
	for rows.Next() {
		var tenant tenants.Tenant
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Address, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "scan tenant: %v", err)
		}
		list = append(list, &tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrStorageUnavailable, "list tenants: %v", err)
	}
	return list, nil
}

func (r *TenantRepo) Update(ctx context.Context, tenant *tenants.Tenant) error {
	const query = `UPDATE tenants SET name=$1, address=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, tenant.Name, tenant.Address, tenant.ID)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "update tenant: %v", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tenants WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageUnavailable, "delete tenant: %v", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrTenantNotFound
	}
	return nil
}
