package storefake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/userhub/auth-service/internal/errors"
	"github.com/userhub/auth-service/sessions"
)

var _ sessions.Store = (*FakeStore)(nil)

// FakeStore is an in-memory sessions.Store for tests. The single mutex gives
// it the same atomic-revoke guarantee the real stores get from their
// backends, so rotation race tests run against it directly.
type FakeStore struct {
	rows map[string]*sessions.Session
	lock sync.RWMutex

	// FailNext makes the next store call return ErrStorageUnavailable,
	// for fail-closed tests.
	FailNext bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{rows: make(map[string]*sessions.Session)}
}

func (fs *FakeStore) Create(_ context.Context, principalID int64, expiresAt time.Time) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failNow() {
		return "", apperrors.ErrStorageUnavailable
	}

	id := uuid.New().String()
	fs.rows[id] = &sessions.Session{ID: id, PrincipalID: principalID, ExpiresAt: expiresAt}
	return id, nil
}

func (fs *FakeStore) IsLive(_ context.Context, sessionID string, principalID int64) (bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failNow() {
		return false, apperrors.ErrStorageUnavailable
	}

	row, ok := fs.rows[sessionID]
	if !ok {
		return false, nil
	}
	return row.PrincipalID == principalID, nil
}

func (fs *FakeStore) Revoke(_ context.Context, sessionID string) (bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failNow() {
		return false, apperrors.ErrStorageUnavailable
	}

	if _, ok := fs.rows[sessionID]; !ok {
		return false, nil
	}
	delete(fs.rows, sessionID)
	return true, nil
}

func (fs *FakeStore) RevokeAllForPrincipal(_ context.Context, principalID int64) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failNow() {
		return apperrors.ErrStorageUnavailable
	}

	for id, row := range fs.rows {
		if row.PrincipalID == principalID {
			delete(fs.rows, id)
		}
	}
	return nil
}

// Count returns the number of live sessions held for a principal.
func (fs *FakeStore) Count(principalID int64) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	n := 0
	for _, row := range fs.rows {
		if row.PrincipalID == principalID {
			n++
		}
	}
	return n
}

func (fs *FakeStore) failNow() bool {
	if fs.FailNext {
		fs.FailNext = false
		return true
	}
	return false
}
