package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
)

var eventColumnNames = []string{"id", "title", "description", "type", "date", "capacity", "registrations_count", "status", "college_id", "manager_id", "created_at", "updated_at"}

func eventRow(rows *sqlmock.Rows, id string, count, capacity int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "Hackathon", "24h build", "hackathon", now.Add(48*time.Hour), capacity, count, "active", "college-1", "manager-1", now, now)
}

func TestEventRepositoryListAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE college_id = $1 AND type = $2 AND status = $3 ORDER BY date ASC, id ASC LIMIT 10 OFFSET 10")).
		WithArgs("college-1", "workshop", models.EventStatusActive).
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumnNames), "event-1", 3, 50))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE college_id = $1 AND type = $2 AND status = $3")).
		WithArgs("college-1", "workshop", models.EventStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	events, total, err := repo.List(context.Background(), models.EventFilter{
		CollegeID: "college-1",
		Type:      "workshop",
		Status:    models.EventStatusActive,
		Page:      2,
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 11, total)
	assert.Equal(t, 3, events[0].RegistrationsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListWithoutStatusFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events ORDER BY date ASC, id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(eventColumnNames))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	events, total, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryLockByIDUsesRowLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs("event-1").
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumnNames), "event-1", 1, 2))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	event, err := repo.LockByID(context.Background(), tx, "event-1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "event-1", event.ID)
	assert.Equal(t, 1, event.Remaining())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryGetReadsThroughTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1") + "$").
		WithArgs("event-1").
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumnNames), "event-1", 1, 2))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	event, err := repo.Get(context.Background(), tx, "event-1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "event-1", event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEventRepositoryCreateStartsActiveAndEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WithArgs(sqlmock.AnyArg(), "Hackathon", "", "hackathon", sqlmock.AnyArg(), 30, 0, models.EventStatusActive, "college-1", "manager-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{Title: "Hackathon", Type: "hackathon", Date: time.Now(), Capacity: 30, RegistrationsCount: 7, CollegeID: "college-1", ManagerID: "manager-1"}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 0, event.RegistrationsCount)
	assert.Equal(t, models.EventStatusActive, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryIncrementRegistrations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET registrations_count = registrations_count + 1")).
		WithArgs("event-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.IncrementRegistrations(context.Background(), nil, "event-1"))

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND registrations_count < capacity")).
		WithArgs("event-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.IncrementRegistrations(context.Background(), nil, "event-1")
	assert.ErrorIs(t, err, ErrCapacityReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status = $2")).
		WithArgs("event-1", models.EventStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "event-1", models.EventStatusCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
