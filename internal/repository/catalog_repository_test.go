package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/database"
)

func TestCollegeRepositoryListAndCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCollegeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at FROM colleges ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow("c-1", "Engineering", time.Now()).
			AddRow("c-2", "Law", time.Now()))
	colleges, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, colleges, 2)

	mock.ExpectExec("INSERT INTO colleges").
		WithArgs(sqlmock.AnyArg(), "Medicine", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	college := &models.College{Name: "Medicine"}
	require.NoError(t, repo.Create(context.Background(), college))
	assert.NotEmpty(t, college.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollegeRepositoryCreateDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCollegeRepository(db)

	mock.ExpectExec("INSERT INTO colleges").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "colleges_name_key"})

	err := repo.Create(context.Background(), &models.College{Name: "Law"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}).
		AddRow("s-1", "Ana", "ana@campus.edu", "c-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE college_id = $1 ORDER BY name ASC LIMIT 20 OFFSET 0")).
		WithArgs("c-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE college_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{CollegeID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateAndFind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), "Ana", "ana@campus.edu", "c-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	student := &models.Student{Name: "Ana", Email: "ana@campus.edu", CollegeID: "c-1"}
	require.NoError(t, repo.Create(context.Background(), student))

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs(student.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "college_id", "created_at"}).
			AddRow(student.ID, "Ana", "ana@campus.edu", "c-1", time.Now()))
	found, err := repo.FindByID(context.Background(), nil, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@campus.edu", found.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventManagerRepositoryListAndFind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventManagerRepository(db)

	columns := []string{"id", "name", "email", "college_id", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_managers ORDER BY name ASC LIMIT 5 OFFSET 5")).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("m-1", "Rina", "rina@campus.edu", "c-1", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM event_managers")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	managers, total, err := repo.List(context.Background(), models.EventManagerFilter{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, managers, 1)
	assert.Equal(t, 6, total)

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_managers WHERE id = $1")).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("m-1", "Rina", "rina@campus.edu", "c-1", time.Now()))
	manager, err := repo.FindByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", manager.CollegeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
