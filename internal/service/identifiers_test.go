package service

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func TestLifecycleRejectsMalformedIdentifiers(t *testing.T) {
	cases := []struct {
		name string
		call func(svc *LifecycleService) error
	}{
		{
			name: "register",
			call: func(svc *LifecycleService) error {
				_, err := svc.Register(context.Background(), dto.RegisterRequest{StudentID: "1", EventID: "42"})
				return err
			},
		},
		{
			name: "register with valid event",
			call: func(svc *LifecycleService) error {
				_, err := svc.Register(context.Background(), dto.RegisterRequest{StudentID: "stu-1", EventID: eventAID})
				return err
			},
		},
		{
			name: "checkin",
			call: func(svc *LifecycleService) error {
				_, err := svc.Checkin(context.Background(), dto.CheckinRequest{RegistrationID: "reg-1"})
				return err
			},
		},
		{
			name: "feedback",
			call: func(svc *LifecycleService) error {
				_, err := svc.SubmitFeedback(context.Background(), dto.FeedbackRequest{StudentID: studentAID, EventID: "42", Rating: 4})
				return err
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLifecycleFixture(t)

			requireKind(t, tc.call(f.svc), appErrors.ErrValidation)
			assert.Empty(t, f.store.registrations)
			assert.Empty(t, f.store.attendance)
			assert.Empty(t, f.store.feedback)
		})
	}
}

func TestRegisterUnparsableKeyIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sdb := sqlx.NewDb(db, "sqlmock")

	store := newCampusStore()
	svc := NewLifecycleService(repository.NewEventRepository(sdb), storeStudents{store}, storeRegistrations{store}, storeAttendance{store}, storeFeedback{store}, &txProviderMock{db: sdb}, NewMetricsService(), 0, nil, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM events WHERE id = \\$1 FOR UPDATE").
		WithArgs(eventAID).
		WillReturnError(&pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"})
	mock.ExpectRollback()

	_, err = svc.Register(context.Background(), dto.RegisterRequest{StudentID: studentAID, EventID: eventAID})
	requireKind(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "event not found", appErrors.FromError(err).Message)
	assert.Empty(t, store.registrations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupErrorInvalidText(t *testing.T) {
	err := lookupError(fmt.Errorf("load: %w", &pq.Error{Code: "22P02"}), "student not found", "failed to load student")
	requireKind(t, err, appErrors.ErrNotFound)

	err = lookupError(&pq.Error{Code: "57014"}, "student not found", "failed to load student")
	requireKind(t, err, appErrors.ErrInternal)
}

func TestMalformedPathIdentifiersAreNotFound(t *testing.T) {
	events, _, _ := newEventServiceForTest(t)
	catalog, _, _, _ := newCatalogServiceForTest()
	qr := NewQRService(&registrationFinderStub{}, nil, 0, 0, nil)
	ctx := context.Background()

	_, err := events.Get(ctx, "42")
	requireKind(t, err, appErrors.ErrNotFound)
	_, err = events.UpdateStatus(ctx, "42", dto.UpdateEventStatusRequest{Status: "cancelled"})
	requireKind(t, err, appErrors.ErrNotFound)
	_, err = events.ListRegistrations(ctx, "evt-1")
	requireKind(t, err, appErrors.ErrNotFound)

	_, err = catalog.GetCollege(ctx, "1")
	requireKind(t, err, appErrors.ErrNotFound)
	_, err = catalog.GetStudent(ctx, "1")
	requireKind(t, err, appErrors.ErrNotFound)
	_, err = catalog.GetManager(ctx, "1")
	requireKind(t, err, appErrors.ErrNotFound)

	_, _, err = qr.Registration(ctx, "reg-1")
	requireKind(t, err, appErrors.ErrNotFound)
}

func TestMalformedFilterIdentifiersAreRejected(t *testing.T) {
	events, _, _ := newEventServiceForTest(t)
	catalog, _, _, _ := newCatalogServiceForTest()
	repo := &reportRepoStub{}
	reports := NewReportService(repo, nil)
	ctx := context.Background()

	_, _, err := events.List(ctx, models.EventFilter{CollegeID: "c1"})
	requireKind(t, err, appErrors.ErrValidation)
	_, _, err = catalog.ListStudents(ctx, models.StudentFilter{CollegeID: "c1"})
	requireKind(t, err, appErrors.ErrValidation)
	_, _, err = catalog.ListManagers(ctx, models.EventManagerFilter{CollegeID: "c1"})
	requireKind(t, err, appErrors.ErrValidation)
	_, err = reports.Attendance(ctx, models.ReportFilter{CollegeID: "c1"})
	requireKind(t, err, appErrors.ErrValidation)
	_, err = reports.UpcomingEvents(ctx, "c1", 7)
	requireKind(t, err, appErrors.ErrValidation)
	assert.Empty(t, repo.lastFilter.CollegeID)

	_, _, err = catalog.ListStudents(ctx, models.StudentFilter{CollegeID: collegeAID})
	require.NoError(t, err)
}
