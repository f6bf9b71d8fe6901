package tenants

import "context"

// Repo is the persistence boundary for tenant records. Implementations
// return apperrors.ErrTenantNotFound for missing rows.
type Repo interface {
	Create(ctx context.Context, tenant *Tenant) error
	Get(ctx context.Context, id int64) (*Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id int64) error
}
