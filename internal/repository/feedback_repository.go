package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// FeedbackRepository handles persistence of event feedback.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Exists reports whether the student already left feedback for the event.
func (r *FeedbackRepository) Exists(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (bool, error) {
	const query = `SELECT 1 FROM feedback WHERE student_id = $1 AND event_id = $2 LIMIT 1`
	var exists int
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, studentID, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check feedback: %w", err)
	}
	return true, nil
}

// Create inserts feedback. The unique (student_id, event_id) constraint rejects a second row.
func (r *FeedbackRepository) Create(ctx context.Context, exec sqlx.ExtContext, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	const query = `INSERT INTO feedback (id, student_id, event_id, rating, comment, sentiment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := pick(r.db, exec).ExecContext(ctx, query,
		feedback.ID, feedback.StudentID, feedback.EventID, feedback.Rating, feedback.Comment, feedback.Sentiment, feedback.CreatedAt,
	); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}
