package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
)

type Database interface {
	Create(message *model.ChatMessage) error
	ByUser(userID model.IdentityID) ([]model.ChatMessage, error)
}

type RolePolicy interface {
	EffectiveRole(identity *model.Identity) model.Role
}

type service struct {
	db     Database
	policy RolePolicy
	now    func() time.Time
}

func New(db Database, policy RolePolicy) *service {
	return &service{db: db, policy: policy, now: time.Now}
}

// Send posts a message into a user's thread. Only an admin may write
// into a thread that is not their own; the sender role is recorded from
// the effective role at send time.
func (s *service) Send(actor *model.Identity, targetUserID model.IdentityID, body string) (*model.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	senderRole := s.policy.EffectiveRole(actor)
	if targetUserID != actor.ID && senderRole != model.RoleAdmin {
		return nil, model.ErrorForbidden
	}

	message := &model.ChatMessage{
		ID:         model.ChatMessageID(model.CreateID()),
		UserID:     targetUserID,
		Body:       body,
		SenderRole: senderRole,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.db.Create(message); err != nil {
		return nil, fmt.Errorf("creating chat message: %w", err)
	}
	return message, nil
}

// Thread returns a user's messages, oldest first. Users may only read
// their own thread; admins may read any.
func (s *service) Thread(actor *model.Identity, userID model.IdentityID) ([]model.ChatMessage, error) {
	if userID != actor.ID && s.policy.EffectiveRole(actor) != model.RoleAdmin {
		return nil, model.ErrorForbidden
	}

	messages, err := s.db.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing thread: %w", err)
	}
	return messages, nil
}
