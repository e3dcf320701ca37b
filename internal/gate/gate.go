package gate

import (
	"github.com/KathiraveluLab/BHV/internal/model"
)

// Requirement names the strength of the check a route demands. Each
// stronger requirement subsumes the weaker ones and the predicates are
// evaluated top-down, short-circuiting on the first failure.
type Requirement int

const (
	// Authenticated requires a logged-in identity.
	Authenticated Requirement = iota
	// Verified additionally requires a verified email.
	Verified
	// Privileged additionally requires an effective role of admin.
	Privileged
	// NotPrivileged requires Verified and an effective role that is NOT
	// admin; it keeps admins out of regular-user-only flows.
	NotPrivileged
)

type DenialKind int

const (
	DenialUnauthenticated DenialKind = iota
	DenialNotVerified
	DenialForbidden
)

// Decision is a tagged outcome, not an error: denial is a normal result
// the caller translates into a redirect or a structured response.
type Decision struct {
	Allowed    bool
	Denial     DenialKind
	RedirectTo string
}

// RolePolicy recomputes the effective role at decision time.
type RolePolicy interface {
	EffectiveRole(identity *model.Identity) model.Role
}

type Gate struct {
	policy RolePolicy
}

func New(policy RolePolicy) *Gate {
	return &Gate{policy: policy}
}

type predicate func(actor *model.Identity) *Decision

// Check evaluates the requirement against the actor. A nil actor is an
// anonymous request.
func (g *Gate) Check(actor *model.Identity, requirement Requirement) Decision {
	for _, p := range g.predicates(requirement) {
		if denial := p(actor); denial != nil {
			return *denial
		}
	}
	return Decision{Allowed: true}
}

func (g *Gate) predicates(requirement Requirement) []predicate {
	switch requirement {
	case Authenticated:
		return []predicate{g.authenticated}
	case Verified:
		return []predicate{g.authenticated, g.verified}
	case Privileged:
		return []predicate{g.authenticated, g.verified, g.privileged}
	case NotPrivileged:
		return []predicate{g.authenticated, g.verified, g.notPrivileged}
	default:
		return []predicate{func(*model.Identity) *Decision {
			return &Decision{Denial: DenialForbidden, RedirectTo: "/"}
		}}
	}
}

func (g *Gate) authenticated(actor *model.Identity) *Decision {
	if actor == nil {
		return &Decision{Denial: DenialUnauthenticated, RedirectTo: "/login"}
	}
	return nil
}

func (g *Gate) verified(actor *model.Identity) *Decision {
	if !actor.IsVerified {
		return &Decision{Denial: DenialNotVerified, RedirectTo: "/register"}
	}
	return nil
}

func (g *Gate) privileged(actor *model.Identity) *Decision {
	if g.policy.EffectiveRole(actor) != model.RoleAdmin {
		return &Decision{Denial: DenialForbidden, RedirectTo: "/gallery"}
	}
	return nil
}

func (g *Gate) notPrivileged(actor *model.Identity) *Decision {
	if g.policy.EffectiveRole(actor) == model.RoleAdmin {
		return &Decision{Denial: DenialForbidden, RedirectTo: "/admin/dashboard"}
	}
	return nil
}
