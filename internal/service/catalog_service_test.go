package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type collegeRepoStub struct {
	items map[string]*models.College
	names map[string]bool
}

func newCollegeRepoStub(ids ...string) *collegeRepoStub {
	stub := &collegeRepoStub{items: map[string]*models.College{}, names: map[string]bool{}}
	for _, id := range ids {
		stub.items[id] = &models.College{ID: id, Name: "College " + id}
		stub.names["College "+id] = true
	}
	return stub
}

func (s *collegeRepoStub) List(ctx context.Context) ([]models.College, error) {
	out := make([]models.College, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, *c)
	}
	return out, nil
}

func (s *collegeRepoStub) FindByID(ctx context.Context, id string) (*models.College, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (s *collegeRepoStub) Create(ctx context.Context, college *models.College) error {
	if s.names[college.Name] {
		return fmt.Errorf("insert college: %w", &pq.Error{Code: "23505", Constraint: "colleges_name_key"})
	}
	college.ID = uuid.NewString()
	s.items[college.ID] = college
	s.names[college.Name] = true
	return nil
}

type studentRepoStub struct {
	items  map[string]*models.Student
	emails map[string]bool
	filter models.StudentFilter
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{items: map[string]*models.Student{}, emails: map[string]bool{}}
}

func (s *studentRepoStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	s.filter = filter
	out := make([]models.Student, 0)
	for _, st := range s.items {
		if filter.CollegeID == "" || st.CollegeID == filter.CollegeID {
			out = append(out, *st)
		}
	}
	return out, len(out), nil
}

func (s *studentRepoStub) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error) {
	st, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return st, nil
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	if s.emails[student.Email] {
		return &pq.Error{Code: "23505", Constraint: "students_email_key"}
	}
	student.ID = uuid.NewString()
	s.items[student.ID] = student
	s.emails[student.Email] = true
	return nil
}

type managerRepoStub struct {
	items map[string]*models.EventManager
}

func newManagerRepoStub() *managerRepoStub {
	return &managerRepoStub{items: map[string]*models.EventManager{}}
}

func (s *managerRepoStub) List(ctx context.Context, filter models.EventManagerFilter) ([]models.EventManager, int, error) {
	out := make([]models.EventManager, 0, len(s.items))
	for _, m := range s.items {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (s *managerRepoStub) FindByID(ctx context.Context, id string) (*models.EventManager, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m, nil
}

func (s *managerRepoStub) Create(ctx context.Context, manager *models.EventManager) error {
	manager.ID = uuid.NewString()
	s.items[manager.ID] = manager
	return nil
}

func newCatalogServiceForTest() (*CatalogService, *collegeRepoStub, *studentRepoStub, *managerRepoStub) {
	colleges := newCollegeRepoStub(collegeAID)
	students := newStudentRepoStub()
	managers := newManagerRepoStub()
	return NewCatalogService(colleges, students, students, managers, nil, nil), colleges, students, managers
}

func TestCatalogServiceCreateCollegeDuplicate(t *testing.T) {
	svc, _, _, _ := newCatalogServiceForTest()

	college, err := svc.CreateCollege(context.Background(), dto.CreateCollegeRequest{Name: "  Engineering  "})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", college.Name)

	_, err = svc.CreateCollege(context.Background(), dto.CreateCollegeRequest{Name: "Engineering"})
	requireKind(t, err, appErrors.ErrDuplicateEntry)
}

func TestCatalogServiceCreateStudent(t *testing.T) {
	svc, _, students, _ := newCatalogServiceForTest()

	student, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{Name: "Asha", Email: " Asha@Campus.edu ", CollegeID: collegeAID})
	require.NoError(t, err)
	assert.Equal(t, "asha@campus.edu", student.Email)

	fetched, err := svc.GetStudent(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, student, fetched)

	_, err = svc.CreateStudent(context.Background(), dto.CreateStudentRequest{Name: "Asha Two", Email: "asha@campus.edu", CollegeID: collegeAID})
	requireKind(t, err, appErrors.ErrDuplicateEntry)

	_, err = svc.CreateStudent(context.Background(), dto.CreateStudentRequest{Name: "Ben", Email: "ben@campus.edu", CollegeID: unknownID})
	requireKind(t, err, appErrors.ErrNotFound)

	_, err = svc.CreateStudent(context.Background(), dto.CreateStudentRequest{Name: "Ben", Email: "not-an-email", CollegeID: collegeAID})
	requireKind(t, err, appErrors.ErrValidation)
	assert.Len(t, students.items, 1)
}

func TestCatalogServiceListStudentsPagination(t *testing.T) {
	svc, _, students, _ := newCatalogServiceForTest()
	students.items[studentAID] = &models.Student{ID: studentAID, CollegeID: collegeAID}
	students.items[studentBID] = &models.Student{ID: studentBID, CollegeID: collegeBID}

	list, page, err := svc.ListStudents(context.Background(), models.StudentFilter{CollegeID: collegeAID, Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, page)
	assert.Equal(t, collegeAID, students.filter.CollegeID)
}

func TestCatalogServiceManagers(t *testing.T) {
	svc, _, _, _ := newCatalogServiceForTest()

	manager, err := svc.CreateManager(context.Background(), dto.CreateEventManagerRequest{Name: "Dana", Email: "dana@campus.edu", CollegeID: collegeAID})
	require.NoError(t, err)

	got, err := svc.GetManager(context.Background(), manager.ID)
	require.NoError(t, err)
	assert.Equal(t, collegeAID, got.CollegeID)

	_, err = svc.GetManager(context.Background(), unknownID)
	requireKind(t, err, appErrors.ErrNotFound)
}
