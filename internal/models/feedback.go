package models

import "time"

// Sentiment is the classified tone of a feedback comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Feedback is an attendee's rating of an event. At most one exists per (student, event).
type Feedback struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	EventID   string    `db:"event_id" json:"event_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Sentiment Sentiment `db:"sentiment" json:"sentiment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
