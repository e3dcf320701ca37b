package upload

import (
	"fmt"
	"io"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/sentiment"
)

type Database interface {
	Create(upload *model.Upload) error
	FindByID(id model.UploadID) (*model.Upload, error)
	All(limit int) ([]model.Upload, error)
	ByUser(userID model.IdentityID) ([]model.Upload, error)
}

type BlobStore interface {
	Put(r io.Reader) (string, error)
	Get(ref string) (io.ReadCloser, error)
}

type CreateParams struct {
	UserID      model.IdentityID
	Title       string
	Description string
	Image       io.Reader
	Audio       io.Reader // optional
}

type service struct {
	db        Database
	blobs     BlobStore
	sentiment sentiment.Provider
	now       func() time.Time
}

func New(db Database, blobs BlobStore, provider sentiment.Provider) *service {
	return &service{db: db, blobs: blobs, sentiment: provider, now: time.Now}
}

// Create stores the media in the blob store, classifies the description
// and persists a record holding blob references only.
func (s *service) Create(params *CreateParams) (*model.Upload, error) {
	if params.Image == nil {
		return nil, fmt.Errorf("image is required")
	}

	imageRef, err := s.blobs.Put(params.Image)
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	var audioRef *string
	if params.Audio != nil {
		ref, err := s.blobs.Put(params.Audio)
		if err != nil {
			return nil, fmt.Errorf("storing audio: %w", err)
		}
		audioRef = &ref
	}

	result := s.sentiment.Classify(params.Description)

	upload := &model.Upload{
		ID:          model.UploadID(model.CreateID()),
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Sentiment:   result.Label,
		ImageRef:    imageRef,
		AudioRef:    audioRef,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.Create(upload); err != nil {
		return nil, fmt.Errorf("creating upload record: %w", err)
	}

	return upload, nil
}

func (s *service) Fetch(id model.UploadID) (*model.Upload, error) {
	upload, err := s.db.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("fetching upload: %w", err)
	}
	return upload, nil
}

func (s *service) Gallery() ([]model.Upload, error) {
	uploads, err := s.db.All(0)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return uploads, nil
}

func (s *service) ByUser(userID model.IdentityID) ([]model.Upload, error) {
	uploads, err := s.db.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing uploads by user: %w", err)
	}
	return uploads, nil
}

func (s *service) OpenBlob(ref string) (io.ReadCloser, error) {
	return s.blobs.Get(ref)
}
