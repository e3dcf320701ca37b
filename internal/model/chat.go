package model

import "time"

type ChatMessageID string

// ChatMessage belongs to a per-user thread keyed by UserID. SenderRole
// records who wrote it (the user themselves or an admin replying).
type ChatMessage struct {
	ID         ChatMessageID `db:"ID"`
	UserID     IdentityID    `db:"UserID"`
	Body       string        `db:"Body"`
	SenderRole Role          `db:"SenderRole"`
	CreatedAt  time.Time     `db:"CreatedAt"`
}
