package store

import (
	"fmt"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/jmoiron/sqlx"
)

type chatStore struct {
	db *sqlx.DB
}

func NewChatStore(db *sqlx.DB) *chatStore {
	return &chatStore{db}
}

func (s *chatStore) Create(message *model.ChatMessage) error {
	_, err := s.db.NamedExec(`insert into chat_message
		(ID, UserID, Body, SenderRole, CreatedAt)
		values(:ID, :UserID, :Body, :SenderRole, :CreatedAt)`, message)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

func (s *chatStore) ByUser(userID model.IdentityID) ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	err := s.db.Select(&messages, `select * from chat_message where UserID = ? order by CreatedAt asc`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages by user: %w", err)
	}
	return messages, nil
}

func (s *chatStore) All() ([]model.ChatMessage, error) {
	messages := []model.ChatMessage{}
	err := s.db.Select(&messages, `select * from chat_message order by CreatedAt asc`)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	return messages, nil
}

func (s *chatStore) CountByUser(userID model.IdentityID) (int, error) {
	var count int
	err := s.db.Get(&count, `select count(*) from chat_message where UserID = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("counting chat messages by user: %w", err)
	}
	return count, nil
}
