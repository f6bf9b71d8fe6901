package repofake

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

// FakeTenantRepo is an in-memory tenants.Repo for tests.
type FakeTenantRepo struct {
	tenants map[int64]*tenants.Tenant
	nextID  int64
	lock    sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[int64]*tenants.Tenant),
		nextID:  1,
	}
}

func (tr *FakeTenantRepo) Create(_ context.Context, tenant *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tenant.ID = tr.nextID
	tr.nextID++

	stored := *tenant
	tr.tenants[tenant.ID] = &stored
	return nil
}

func (tr *FakeTenantRepo) Get(_ context.Context, id int64) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	tenant, ok := tr.tenants[id]
	if !ok {
		return nil, apperrors.ErrTenantNotFound
	}
	found := *tenant
	return &found, nil
}

func (tr *FakeTenantRepo) List(_ context.Context, offset, limit int) ([]*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	list := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		copied := *t
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	if offset >= len(list) {
		return []*tenants.Tenant{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (tr *FakeTenantRepo) Update(_ context.Context, tenant *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tenants[tenant.ID]; !ok {
		return apperrors.ErrTenantNotFound
	}
	stored := *tenant
	tr.tenants[tenant.ID] = &stored
	return nil
}

func (tr *FakeTenantRepo) Delete(_ context.Context, id int64) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tenants[id]; !ok {
		return apperrors.ErrTenantNotFound
	}
	delete(tr.tenants, id)
	return nil
}
