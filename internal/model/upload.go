package model

import "time"

type UploadID string

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Upload holds blob references, not bytes. ImageRef and AudioRef point
// into the content-addressed blob store.
type Upload struct {
	ID          UploadID   `db:"ID"`
	UserID      IdentityID `db:"UserID"`
	Title       string     `db:"Title"`
	Description string     `db:"Description"`
	Sentiment   Sentiment  `db:"Sentiment"`
	ImageRef    string     `db:"ImageRef"`
	AudioRef    *string    `db:"AudioRef"`
	CreatedAt   time.Time  `db:"CreatedAt"`
}
