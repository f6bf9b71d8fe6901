package tenants

import "time"

// Tenant represents an organization that managers belong to. The credential
// core treats tenants as read-only references; this package exists so the
// privileged user operations can resolve them.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
