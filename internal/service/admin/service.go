package admin

import (
	"fmt"

	"github.com/KathiraveluLab/BHV/internal/model"
)

type IdentityDatabase interface {
	FindByID(id model.IdentityID) (*model.Identity, error)
	All() ([]model.Identity, error)
	Count() (int, error)
}

type UploadDatabase interface {
	All(limit int) ([]model.Upload, error)
	ByUser(userID model.IdentityID) ([]model.Upload, error)
	CountByUser(userID model.IdentityID) (int, error)
	Count() (int, error)
	CountBySentiment() (map[model.Sentiment]int, error)
}

type ChatDatabase interface {
	All() ([]model.ChatMessage, error)
	ByUser(userID model.IdentityID) ([]model.ChatMessage, error)
	CountByUser(userID model.IdentityID) (int, error)
}

type Dashboard struct {
	SentimentCounts map[model.Sentiment]int
	TotalUploads    int
	TotalUsers      int
	RecentUploads   []model.Upload
}

type UserSummary struct {
	Identity    model.Identity
	UploadCount int
	ChatCount   int
}

type UserDetail struct {
	Identity model.Identity
	Uploads  []model.Upload
	Messages []model.ChatMessage
}

type Thread struct {
	User     model.Identity
	Messages []model.ChatMessage
}

type service struct {
	identities IdentityDatabase
	uploads    UploadDatabase
	chats      ChatDatabase
}

func New(identities IdentityDatabase, uploads UploadDatabase, chats ChatDatabase) *service {
	return &service{identities: identities, uploads: uploads, chats: chats}
}

func (s *service) Dashboard() (*Dashboard, error) {
	sentimentCounts, err := s.uploads.CountBySentiment()
	if err != nil {
		return nil, fmt.Errorf("counting sentiment: %w", err)
	}
	totalUploads, err := s.uploads.Count()
	if err != nil {
		return nil, fmt.Errorf("counting uploads: %w", err)
	}
	totalUsers, err := s.identities.Count()
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	recent, err := s.uploads.All(10)
	if err != nil {
		return nil, fmt.Errorf("listing recent uploads: %w", err)
	}

	return &Dashboard{
		SentimentCounts: sentimentCounts,
		TotalUploads:    totalUploads,
		TotalUsers:      totalUsers,
		RecentUploads:   recent,
	}, nil
}

func (s *service) Users() ([]UserSummary, error) {
	identities, err := s.identities.All()
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(identities))
	for _, identity := range identities {
		uploadCount, err := s.uploads.CountByUser(identity.ID)
		if err != nil {
			return nil, fmt.Errorf("counting uploads for %s: %w", identity.ID, err)
		}
		chatCount, err := s.chats.CountByUser(identity.ID)
		if err != nil {
			return nil, fmt.Errorf("counting chats for %s: %w", identity.ID, err)
		}
		summaries = append(summaries, UserSummary{
			Identity:    identity,
			UploadCount: uploadCount,
			ChatCount:   chatCount,
		})
	}
	return summaries, nil
}

func (s *service) User(id model.IdentityID) (*UserDetail, error) {
	identity, err := s.identities.FindByID(id)
	if err != nil {
		return nil, err
	}
	uploads, err := s.uploads.ByUser(id)
	if err != nil {
		return nil, fmt.Errorf("listing uploads for %s: %w", id, err)
	}
	messages, err := s.chats.ByUser(id)
	if err != nil {
		return nil, fmt.Errorf("listing chats for %s: %w", id, err)
	}
	return &UserDetail{Identity: *identity, Uploads: uploads, Messages: messages}, nil
}

// Threads groups every chat message by the user whose thread it belongs
// to, ordered by each thread's first message.
func (s *service) Threads() ([]Thread, error) {
	messages, err := s.chats.All()
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}

	order := []model.IdentityID{}
	grouped := map[model.IdentityID][]model.ChatMessage{}
	for _, message := range messages {
		if _, ok := grouped[message.UserID]; !ok {
			order = append(order, message.UserID)
		}
		grouped[message.UserID] = append(grouped[message.UserID], message)
	}

	threads := make([]Thread, 0, len(order))
	for _, userID := range order {
		thread := Thread{Messages: grouped[userID]}
		if identity, err := s.identities.FindByID(userID); err == nil {
			thread.User = *identity
		} else {
			thread.User = model.Identity{ID: userID, Email: "unknown"}
		}
		threads = append(threads, thread)
	}
	return threads, nil
}
