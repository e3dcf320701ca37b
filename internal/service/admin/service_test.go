package admin

import (
	"testing"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/store"
	"github.com/stretchr/testify/assert"
)

func seed(t *testing.T) (*service, *model.Identity, *model.Identity) {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	identities := store.NewIdentityStore(db)
	uploads := store.NewUploadStore(db)
	chats := store.NewChatStore(db)

	alice := &model.Identity{
		ID: model.IdentityID(model.CreateID()), Email: "alice@x.com",
		StoredRole: model.RoleUser, IsVerified: true, CreatedAt: time.Now().UTC(),
	}
	bob := &model.Identity{
		ID: model.IdentityID(model.CreateID()), Email: "bob@x.com",
		StoredRole: model.RoleUser, IsVerified: true, CreatedAt: time.Now().UTC(),
	}
	if err := identities.Create(alice); err != nil {
		t.Fatal(err)
	}
	if err := identities.Create(bob); err != nil {
		t.Fatal(err)
	}

	base := time.Now().UTC()
	for i, sentiment := range []model.Sentiment{model.SentimentPositive, model.SentimentPositive, model.SentimentNegative} {
		err := uploads.Create(&model.Upload{
			ID:        model.UploadID(model.CreateID()),
			UserID:    alice.ID,
			Title:     "upload",
			Sentiment: sentiment,
			ImageRef:  "ref",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	for i, message := range []struct {
		user model.IdentityID
		body string
	}{
		{alice.ID, "hello"},
		{bob.ID, "hi"},
		{alice.ID, "anyone there?"},
	} {
		err := chats.Create(&model.ChatMessage{
			ID:         model.ChatMessageID(model.CreateID()),
			UserID:     message.user,
			Body:       message.body,
			SenderRole: model.RoleUser,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	return New(identities, uploads, chats), alice, bob
}

func TestDashboard(t *testing.T) {
	assert := assert.New(t)
	service, _, _ := seed(t)

	dashboard, err := service.Dashboard()
	assert.Nil(err)
	assert.Equal(2, dashboard.TotalUsers)
	assert.Equal(3, dashboard.TotalUploads)
	assert.Equal(2, dashboard.SentimentCounts[model.SentimentPositive])
	assert.Equal(1, dashboard.SentimentCounts[model.SentimentNegative])
	assert.Equal(0, dashboard.SentimentCounts[model.SentimentNeutral])
	assert.Len(dashboard.RecentUploads, 3)
}

func TestUsers(t *testing.T) {
	assert := assert.New(t)
	service, alice, bob := seed(t)

	summaries, err := service.Users()
	assert.Nil(err)
	assert.Len(summaries, 2)

	byEmail := map[string]UserSummary{}
	for _, summary := range summaries {
		byEmail[summary.Identity.Email] = summary
	}
	assert.Equal(3, byEmail[alice.Email].UploadCount)
	assert.Equal(2, byEmail[alice.Email].ChatCount)
	assert.Equal(0, byEmail[bob.Email].UploadCount)
	assert.Equal(1, byEmail[bob.Email].ChatCount)
}

func TestUserDetail(t *testing.T) {
	assert := assert.New(t)
	service, alice, _ := seed(t)

	detail, err := service.User(alice.ID)
	assert.Nil(err)
	assert.Equal(alice.Email, detail.Identity.Email)
	assert.Len(detail.Uploads, 3)
	assert.Len(detail.Messages, 2)

	_, err = service.User("missing")
	assert.ErrorIs(err, model.ErrorNotFound)
}

func TestThreads(t *testing.T) {
	assert := assert.New(t)
	service, alice, bob := seed(t)

	threads, err := service.Threads()
	assert.Nil(err)
	assert.Len(threads, 2)

	// Threads appear in first-message order.
	assert.Equal(alice.ID, threads[0].User.ID)
	assert.Len(threads[0].Messages, 2)
	assert.Equal(bob.ID, threads[1].User.ID)
	assert.Len(threads[1].Messages, 1)
}
