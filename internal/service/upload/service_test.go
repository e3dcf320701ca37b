package upload

import (
	"io"
	"strings"
	"testing"

	"github.com/KathiraveluLab/BHV/internal/blobstore"
	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/sentiment"
	"github.com/KathiraveluLab/BHV/internal/store"
	"github.com/stretchr/testify/assert"
)

func newService(t *testing.T) *service {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	return New(store.NewUploadStore(db), blobs, sentiment.NewLexicon())
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)
	service := newService(t)

	t.Run("image only", func(t *testing.T) {
		created, err := service.Create(&CreateParams{
			UserID:      "u1",
			Title:       "sunrise",
			Description: "a wonderful happy morning",
			Image:       strings.NewReader("image-bytes"),
		})
		assert.Nil(err)
		assert.Equal(model.SentimentPositive, created.Sentiment)
		assert.Len(created.ImageRef, 64)
		assert.Nil(created.AudioRef)

		blob, err := service.OpenBlob(created.ImageRef)
		assert.Nil(err)
		defer blob.Close()
		contents, err := io.ReadAll(blob)
		assert.Nil(err)
		assert.Equal("image-bytes", string(contents))
	})

	t.Run("with audio", func(t *testing.T) {
		created, err := service.Create(&CreateParams{
			UserID:      "u1",
			Title:       "field notes",
			Description: "a sad, terrible week",
			Image:       strings.NewReader("image-bytes-2"),
			Audio:       strings.NewReader("audio-bytes"),
		})
		assert.Nil(err)
		assert.Equal(model.SentimentNegative, created.Sentiment)
		assert.NotNil(created.AudioRef)
	})

	t.Run("image required", func(t *testing.T) {
		_, err := service.Create(&CreateParams{UserID: "u1", Title: "no image"})
		assert.NotNil(err)
	})
}

func TestFetchAndList(t *testing.T) {
	assert := assert.New(t)
	service := newService(t)

	created, err := service.Create(&CreateParams{
		UserID:      "u1",
		Title:       "one",
		Description: "a plain record",
		Image:       strings.NewReader("bytes-1"),
	})
	assert.Nil(err)

	_, err = service.Create(&CreateParams{
		UserID:      "u2",
		Title:       "two",
		Description: "another plain record",
		Image:       strings.NewReader("bytes-2"),
	})
	assert.Nil(err)

	t.Run("fetch by id", func(t *testing.T) {
		found, err := service.Fetch(created.ID)
		assert.Nil(err)
		assert.Equal("one", found.Title)

		_, err = service.Fetch("missing")
		assert.NotNil(err)
	})

	t.Run("gallery lists everything", func(t *testing.T) {
		all, err := service.Gallery()
		assert.Nil(err)
		assert.Len(all, 2)
	})

	t.Run("by user filters", func(t *testing.T) {
		mine, err := service.ByUser("u1")
		assert.Nil(err)
		assert.Len(mine, 1)
		assert.Equal(created.ID, mine[0].ID)
	})
}
