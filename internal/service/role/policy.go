package role

import (
	"fmt"

	"github.com/KathiraveluLab/BHV/internal/model"
)

// Resolver answers whether an email is currently on the admin
// allow-list. It must consult the live source on every call.
type Resolver interface {
	IsPrivileged(email string) bool
}

type Database interface {
	UpdateRole(id model.IdentityID, role model.Role) error
}

type ReconcileOutcome int

const (
	Unchanged ReconcileOutcome = iota
	Changed
)

// policy computes the effective role of an identity at decision time.
// The allow-list is the source of truth; the stored role is only a
// fallback for addresses the list does not name.
type policy struct {
	resolver Resolver
	db       Database
}

func NewPolicy(resolver Resolver, db Database) *policy {
	return &policy{resolver: resolver, db: db}
}

// EffectiveRole never reads the stored role when the allow-list reports
// the email as privileged.
func (p *policy) EffectiveRole(identity *model.Identity) model.Role {
	if p.resolver.IsPrivileged(identity.Email) {
		return model.RoleAdmin
	}
	return identity.StoredRole
}

// Reconcile persists the effective role into the stored role when they
// diverge. It is called at every successful authentication event and is
// the only implicit mutator of the stored role. Concurrent calls are
// idempotent: both compute the same value and both may write it.
func (p *policy) Reconcile(identity *model.Identity) (ReconcileOutcome, error) {
	effective := model.RoleUser
	if p.resolver.IsPrivileged(identity.Email) {
		effective = model.RoleAdmin
	}
	if effective == identity.StoredRole {
		return Unchanged, nil
	}

	if err := p.db.UpdateRole(identity.ID, effective); err != nil {
		return Unchanged, fmt.Errorf("persisting reconciled role: %w", err)
	}
	identity.StoredRole = effective
	return Changed, nil
}
