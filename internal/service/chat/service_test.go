package chat

import (
	"testing"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/store"
	"github.com/stretchr/testify/assert"
)

type fakePolicy struct {
	admins map[model.IdentityID]bool
}

func (p *fakePolicy) EffectiveRole(identity *model.Identity) model.Role {
	if p.admins[identity.ID] {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func TestChat(t *testing.T) {
	assert := assert.New(t)

	db, err := store.OpenInMemory()
	assert.Nil(err)
	defer db.Close()

	service := New(store.NewChatStore(db), &fakePolicy{
		admins: map[model.IdentityID]bool{"admin-1": true},
	})

	user := &model.Identity{ID: "user-1", Email: "user@x.com", IsVerified: true}
	other := &model.Identity{ID: "user-2", Email: "other@x.com", IsVerified: true}
	admin := &model.Identity{ID: "admin-1", Email: "boss@x.com", IsVerified: true}

	t.Run("user posts into their own thread", func(t *testing.T) {
		message, err := service.Send(user, user.ID, "  hello  ")
		assert.Nil(err)
		assert.Equal("hello", message.Body)
		assert.Equal(model.RoleUser, message.SenderRole)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		_, err := service.Send(user, user.ID, "   ")
		assert.NotNil(err)
	})

	t.Run("user cannot write into another thread", func(t *testing.T) {
		_, err := service.Send(other, user.ID, "intruding")
		assert.ErrorIs(err, model.ErrorForbidden)
	})

	t.Run("admin replies into any thread", func(t *testing.T) {
		message, err := service.Send(admin, user.ID, "hi from support")
		assert.Nil(err)
		assert.Equal(model.RoleAdmin, message.SenderRole)
		assert.Equal(user.ID, message.UserID)
	})

	t.Run("thread access mirrors write access", func(t *testing.T) {
		messages, err := service.Thread(user, user.ID)
		assert.Nil(err)
		assert.Len(messages, 2)
		assert.Equal("hello", messages[0].Body)

		_, err = service.Thread(other, user.ID)
		assert.ErrorIs(err, model.ErrorForbidden)

		messages, err = service.Thread(admin, user.ID)
		assert.Nil(err)
		assert.Len(messages, 2)
	})
}
