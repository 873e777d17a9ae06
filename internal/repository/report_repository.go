package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// ReportRepository runs the read-only aggregations behind the reports endpoints.
// Queries run outside any write transaction and see read-committed data.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func eventConditions(filter models.ReportFilter) conditions {
	var conds conditions
	if filter.CollegeID != "" {
		conds.add("e.college_id = $%d", filter.CollegeID)
	}
	if filter.EventType != "" {
		conds.add("e.type = $%d", filter.EventType)
	}
	return conds
}

// EventPopularity ranks events by registrations_count, highest first.
func (r *ReportRepository) EventPopularity(ctx context.Context, filter models.ReportFilter) ([]models.EventPopularityRow, error) {
	conds := eventConditions(filter)
	query := fmt.Sprintf(`SELECT e.id AS event_id, e.title, e.registrations_count AS registrations
        FROM events e%s
        ORDER BY e.registrations_count DESC, e.date ASC
        LIMIT %d`, conds.where(), filter.Limit)
	rows := make([]models.EventPopularityRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("query event popularity: %w", err)
	}
	return rows, nil
}

// Attendance counts check-ins reachable through each event's registrations.
func (r *ReportRepository) Attendance(ctx context.Context, filter models.ReportFilter) ([]models.AttendanceReportRow, error) {
	conds := eventConditions(filter)
	query := fmt.Sprintf(`SELECT e.id AS event_id, e.title, e.registrations_count AS registered, COUNT(a.id) AS attended
        FROM events e
        LEFT JOIN registrations r ON r.event_id = e.id
        LEFT JOIN attendance a ON a.registration_id = r.id%s
        GROUP BY e.id, e.title, e.registrations_count, e.date
        ORDER BY e.date ASC`, conds.where())
	rows := make([]models.AttendanceReportRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("query attendance report: %w", err)
	}
	return rows, nil
}

type feedbackAggregate struct {
	EventID       string  `db:"event_id"`
	Title         string  `db:"title"`
	AverageRating float64 `db:"average_rating"`
	FeedbackCount int     `db:"feedback_count"`
	Positive      int     `db:"positive_count"`
	Negative      int     `db:"negative_count"`
	Neutral       int     `db:"neutral_count"`
}

// Feedback returns the average rating and sentiment histogram per event.
func (r *ReportRepository) Feedback(ctx context.Context, filter models.ReportFilter) ([]models.FeedbackReportRow, error) {
	conds := eventConditions(filter)
	query := fmt.Sprintf(`SELECT e.id AS event_id, e.title,
        COALESCE(AVG(f.rating), 0)::float8 AS average_rating,
        COUNT(f.id) AS feedback_count,
        COUNT(f.id) FILTER (WHERE f.sentiment = 'positive') AS positive_count,
        COUNT(f.id) FILTER (WHERE f.sentiment = 'negative') AS negative_count,
        COUNT(f.id) FILTER (WHERE f.sentiment = 'neutral') AS neutral_count
        FROM events e
        LEFT JOIN feedback f ON f.event_id = e.id%s
        GROUP BY e.id, e.title, e.date
        ORDER BY e.date ASC`, conds.where())
	var aggregates []feedbackAggregate
	if err := r.db.SelectContext(ctx, &aggregates, query, conds.args...); err != nil {
		return nil, fmt.Errorf("query feedback report: %w", err)
	}
	rows := make([]models.FeedbackReportRow, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, models.FeedbackReportRow{
			EventID:       agg.EventID,
			Title:         agg.Title,
			AverageRating: agg.AverageRating,
			FeedbackCount: agg.FeedbackCount,
			SentimentDistribution: models.SentimentDistribution{
				Positive: agg.Positive,
				Negative: agg.Negative,
				Neutral:  agg.Neutral,
			},
		})
	}
	return rows, nil
}

// StudentParticipation ranks students by check-ins, most active first.
func (r *ReportRepository) StudentParticipation(ctx context.Context, filter models.ReportFilter) ([]models.StudentParticipationRow, error) {
	var conds conditions
	if filter.CollegeID != "" {
		conds.add("s.college_id = $%d", filter.CollegeID)
	}
	query := fmt.Sprintf(`SELECT s.id AS student_id, s.name, s.email, COUNT(a.id) AS events_attended
        FROM students s
        LEFT JOIN registrations r ON r.student_id = s.id
        LEFT JOIN attendance a ON a.registration_id = r.id%s
        GROUP BY s.id, s.name, s.email
        ORDER BY events_attended DESC, s.name ASC
        LIMIT %d`, conds.where(), filter.Limit)
	rows := make([]models.StudentParticipationRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("query student participation: %w", err)
	}
	return rows, nil
}

// UpcomingEvents lists active events dated within [from, to], soonest first.
func (r *ReportRepository) UpcomingEvents(ctx context.Context, collegeID string, from, to time.Time) ([]models.Event, error) {
	var conds conditions
	conds.add("status = $%d", models.EventStatusActive)
	conds.add("date >= $%d", from)
	conds.add("date <= $%d", to)
	if collegeID != "" {
		conds.add("college_id = $%d", collegeID)
	}
	query := `SELECT ` + eventColumns + ` FROM events` + conds.where() + ` ORDER BY date ASC`
	events := make([]models.Event, 0)
	if err := r.db.SelectContext(ctx, &events, query, conds.args...); err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	return events, nil
}
