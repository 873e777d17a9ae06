package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
)

func TestReportRepositoryEventPopularity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events e WHERE e.college_id = $1 AND e.type = $2")).
		WithArgs("c-1", "workshop").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "title", "registrations"}).
			AddRow("e-1", "Go 101", 40).
			AddRow("e-2", "Rust 101", 12))

	rows, err := repo.EventPopularity(context.Background(), models.ReportFilter{CollegeID: "c-1", EventType: "workshop", Limit: 5})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 40, rows[0].Registrations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryAttendance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(a.id) AS attended")).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "title", "registered", "attended"}).
			AddRow("e-1", "Go 101", 4, 3).
			AddRow("e-2", "Empty", 0, 0))

	rows, err := repo.Attendance(context.Background(), models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Attended)
	assert.Zero(t, rows[1].Registered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryFeedbackBuildsDistribution(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE f.sentiment = 'positive')")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "title", "average_rating", "feedback_count", "positive_count", "negative_count", "neutral_count"}).
			AddRow("e-1", "Go 101", 4.5, 4, 3, 0, 1))

	rows, err := repo.Feedback(context.Background(), models.ReportFilter{CollegeID: "c-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].FeedbackCount)
	assert.Equal(t, models.SentimentDistribution{Positive: 3, Negative: 0, Neutral: 1}, rows[0].SentimentDistribution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryStudentParticipation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery("ORDER BY events_attended DESC, s.name ASC\\s+LIMIT 10").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "email", "events_attended"}).
			AddRow("s-1", "Ana", "ana@campus.edu", 5))

	rows, err := repo.StudentParticipation(context.Background(), models.ReportFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].EventsAttended)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpcomingEvents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE status = $1 AND date >= $2 AND date <= $3 AND college_id = $4 ORDER BY date ASC")).
		WithArgs(models.EventStatusActive, from, to, "c-1").
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumnNames), "e-1", 0, 10))

	events, err := repo.UpcomingEvents(context.Background(), "c-1", from, to)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
