package role

import (
	"testing"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	privileged map[string]bool
}

func (r *fakeResolver) IsPrivileged(email string) bool {
	return r.privileged[model.NormalizeEmail(email)]
}

type fakeDatabase struct {
	roles map[model.IdentityID]model.Role
}

func (d *fakeDatabase) UpdateRole(id model.IdentityID, role model.Role) error {
	d.roles[id] = role
	return nil
}

func newFixture(privileged ...string) (*fakeResolver, *fakeDatabase, *policy) {
	resolver := &fakeResolver{privileged: map[string]bool{}}
	for _, email := range privileged {
		resolver.privileged[email] = true
	}
	db := &fakeDatabase{roles: map[model.IdentityID]model.Role{}}
	return resolver, db, NewPolicy(resolver, db)
}

func TestEffectiveRole(t *testing.T) {
	assert := assert.New(t)

	t.Run("allow-list wins regardless of stored role", func(t *testing.T) {
		_, _, policy := newFixture("boss@x.com")
		identity := &model.Identity{ID: "1", Email: "boss@x.com", StoredRole: model.RoleUser}
		assert.Equal(model.RoleAdmin, policy.EffectiveRole(identity))
	})

	t.Run("falls back to stored role when not listed", func(t *testing.T) {
		_, _, policy := newFixture()
		identity := &model.Identity{ID: "1", Email: "boss@x.com", StoredRole: model.RoleAdmin}
		assert.Equal(model.RoleAdmin, policy.EffectiveRole(identity))

		identity.StoredRole = model.RoleUser
		assert.Equal(model.RoleUser, policy.EffectiveRole(identity))
	})
}

func TestReconcile(t *testing.T) {
	assert := assert.New(t)

	t.Run("promotes a listed user", func(t *testing.T) {
		_, db, policy := newFixture("boss@x.com")
		identity := &model.Identity{ID: "1", Email: "boss@x.com", StoredRole: model.RoleUser}

		outcome, err := policy.Reconcile(identity)
		assert.Nil(err)
		assert.Equal(Changed, outcome)
		assert.Equal(model.RoleAdmin, identity.StoredRole)
		assert.Equal(model.RoleAdmin, db.roles["1"])
	})

	t.Run("demotes an unlisted admin", func(t *testing.T) {
		_, db, policy := newFixture()
		identity := &model.Identity{ID: "1", Email: "former@x.com", StoredRole: model.RoleAdmin}

		outcome, err := policy.Reconcile(identity)
		assert.Nil(err)
		assert.Equal(Changed, outcome)
		assert.Equal(model.RoleUser, db.roles["1"])
	})

	t.Run("idempotent", func(t *testing.T) {
		_, _, policy := newFixture("boss@x.com")
		identity := &model.Identity{ID: "1", Email: "boss@x.com", StoredRole: model.RoleUser}

		outcome, err := policy.Reconcile(identity)
		assert.Nil(err)
		assert.Equal(Changed, outcome)

		outcome, err = policy.Reconcile(identity)
		assert.Nil(err)
		assert.Equal(Unchanged, outcome)
	})

	t.Run("stored role survives list removal until next reconcile", func(t *testing.T) {
		resolver, _, policy := newFixture("boss@x.com")
		identity := &model.Identity{ID: "1", Email: "boss@x.com", StoredRole: model.RoleUser}

		_, err := policy.Reconcile(identity)
		assert.Nil(err)
		assert.Equal(model.RoleAdmin, identity.StoredRole)

		// Resolver reporting false now falls back to the stored value.
		resolver.privileged = map[string]bool{}
		assert.Equal(model.RoleAdmin, policy.EffectiveRole(identity))
	})
}
