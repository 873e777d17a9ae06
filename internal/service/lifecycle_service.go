package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/tracing"
)

// DefaultCheckinGracePeriod is how long after the scheduled start a check-in still counts as on time.
const DefaultCheckinGracePeriod = 15 * time.Minute

type lifecycleEventRepository interface {
	Get(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Event, error)
	LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Event, error)
	IncrementRegistrations(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type studentReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error)
}

type registrationRepository interface {
	LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Registration, error)
	LockByStudentEvent(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (*models.Registration, error)
	Exists(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, registration *models.Registration) error
}

type attendanceRepository interface {
	ExistsForRegistration(ctx context.Context, exec sqlx.ExtContext, registrationID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, attendance *models.Attendance) error
}

type feedbackRepository interface {
	Exists(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, feedback *models.Feedback) error
}

// LifecycleService runs the register, check-in and feedback workflows.
//
// Every workflow checks its preconditions inside one transaction and fails on the
// first violated one without writing anything. Row locks taken at the start
// (the event for registration, the registration for check-in and feedback) make the
// check-then-insert sequences atomic across concurrent requests; unique constraints
// on the tables catch anything that slips past and surface as DuplicateEntry.
type LifecycleService struct {
	events        lifecycleEventRepository
	students      studentReader
	registrations registrationRepository
	attendance    attendanceRepository
	feedback      feedbackRepository
	tx            txProvider
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	gracePeriod   time.Duration
	now           func() time.Time
}

// NewLifecycleService constructs LifecycleService. A non-positive grace period uses DefaultCheckinGracePeriod.
func NewLifecycleService(
	events lifecycleEventRepository,
	students studentReader,
	registrations registrationRepository,
	attendance attendanceRepository,
	feedback feedbackRepository,
	tx txProvider,
	metrics *MetricsService,
	gracePeriod time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *LifecycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gracePeriod <= 0 {
		gracePeriod = DefaultCheckinGracePeriod
	}
	return &LifecycleService{
		events:        events,
		students:      students,
		registrations: registrations,
		attendance:    attendance,
		feedback:      feedback,
		tx:            tx,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		gracePeriod:   gracePeriod,
		now:           time.Now,
	}
}

// Register enrols a student in an event and increments the event's registration count.
func (s *LifecycleService) Register(ctx context.Context, req dto.RegisterRequest) (registration *models.Registration, err error) {
	ctx, span := tracing.Start(ctx, "lifecycle.register", "event.id", req.EventID, "student.id", req.StudentID)
	defer func() { s.finish(span, "register", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		event, err := s.events.LockByID(ctx, tx, req.EventID)
		if err != nil {
			return lookupError(err, "event not found", "failed to load event")
		}
		if event.Status != models.EventStatusActive {
			return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("event is %s", event.Status))
		}
		if _, err := s.students.FindByID(ctx, tx, req.StudentID); err != nil {
			return lookupError(err, "student not found", "failed to load student")
		}
		if event.IsFull() {
			return appErrors.Clone(appErrors.ErrCapacityExceeded, fmt.Sprintf("event is full (%d/%d)", event.RegistrationsCount, event.Capacity))
		}
		exists, err := s.registrations.Exists(ctx, tx, req.StudentID, req.EventID)
		if err != nil {
			return appErrors.Internal(err, "failed to check registration")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicateEntry, "student already registered for event")
		}

		registration = &models.Registration{StudentID: req.StudentID, EventID: req.EventID, RegisteredAt: s.now().UTC()}
		if err := s.registrations.Create(ctx, tx, registration); err != nil {
			return writeError(err, "student already registered for event", "failed to create registration")
		}
		if err := s.events.IncrementRegistrations(ctx, tx, req.EventID); err != nil {
			if errors.Is(err, repository.ErrCapacityReached) {
				return appErrors.Clone(appErrors.ErrCapacityExceeded, "event is full")
			}
			return appErrors.Internal(err, "failed to update registration count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student registered", zap.String("registration_id", registration.ID), zap.String("event_id", req.EventID), zap.String("student_id", req.StudentID))
	tracing.Event(ctx, "registration.created", "registration.id", registration.ID)
	return registration, nil
}

// Checkin records attendance for a registration. The status is on-time when the check-in
// happens no later than the event start plus the grace period, late otherwise.
func (s *LifecycleService) Checkin(ctx context.Context, req dto.CheckinRequest) (attendance *models.Attendance, err error) {
	ctx, span := tracing.Start(ctx, "lifecycle.checkin", "registration.id", req.RegistrationID)
	defer func() { s.finish(span, "checkin", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		registration, err := s.registrations.LockByID(ctx, tx, req.RegistrationID)
		if err != nil {
			return lookupError(err, "registration not found", "failed to load registration")
		}
		checkedIn, err := s.attendance.ExistsForRegistration(ctx, tx, registration.ID)
		if err != nil {
			return appErrors.Internal(err, "failed to check attendance")
		}
		if checkedIn {
			return appErrors.Clone(appErrors.ErrDuplicateEntry, "registration already checked in")
		}
		event, err := s.events.Get(ctx, tx, registration.EventID)
		if err != nil {
			return lookupError(err, "event not found", "failed to load event")
		}

		checkinTime := s.now().UTC()
		attendance = &models.Attendance{
			RegistrationID: registration.ID,
			CheckinTime:    checkinTime,
			Status:         s.AttendanceStatus(event.Date, checkinTime),
		}
		if err := s.attendance.Create(ctx, tx, attendance); err != nil {
			return writeError(err, "registration already checked in", "failed to record attendance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration checked in", zap.String("registration_id", req.RegistrationID), zap.String("status", string(attendance.Status)))
	return attendance, nil
}

// AttendanceStatus derives the check-in status for an event starting at eventDate.
func (s *LifecycleService) AttendanceStatus(eventDate, checkinTime time.Time) models.AttendanceStatus {
	if checkinTime.After(eventDate.Add(s.gracePeriod)) {
		return models.AttendanceStatusLate
	}
	return models.AttendanceStatusOnTime
}

// SubmitFeedback stores an attendee's rating and the sentiment of their comment.
func (s *LifecycleService) SubmitFeedback(ctx context.Context, req dto.FeedbackRequest) (feedback *models.Feedback, err error) {
	ctx, span := tracing.Start(ctx, "lifecycle.feedback", "event.id", req.EventID, "student.id", req.StudentID)
	defer func() { s.finish(span, "feedback", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rating must be between 1 and 5")
	}

	var comment *string
	if req.Comment != nil {
		if trimmed := strings.TrimSpace(*req.Comment); trimmed != "" {
			comment = &trimmed
		}
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		registration, err := s.registrations.LockByStudentEvent(ctx, tx, req.StudentID, req.EventID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrInvalidState, "student did not attend this event")
			}
			return appErrors.Internal(err, "failed to load registration")
		}
		attended, err := s.attendance.ExistsForRegistration(ctx, tx, registration.ID)
		if err != nil {
			return appErrors.Internal(err, "failed to check attendance")
		}
		if !attended {
			return appErrors.Clone(appErrors.ErrInvalidState, "student did not attend this event")
		}
		exists, err := s.feedback.Exists(ctx, tx, req.StudentID, req.EventID)
		if err != nil {
			return appErrors.Internal(err, "failed to check feedback")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicateEntry, "feedback already submitted for event")
		}

		sentiment := models.SentimentNeutral
		if comment != nil {
			sentiment = ClassifySentiment(*comment)
		}
		feedback = &models.Feedback{
			StudentID: req.StudentID,
			EventID:   req.EventID,
			Rating:    req.Rating,
			Comment:   comment,
			Sentiment: sentiment,
			CreatedAt: s.now().UTC(),
		}
		if err := s.feedback.Create(ctx, tx, feedback); err != nil {
			return writeError(err, "feedback already submitted for event", "failed to store feedback")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback submitted",
		zap.String("event_id", req.EventID),
		zap.Int("rating", feedback.Rating),
		zap.String("sentiment", string(feedback.Sentiment)),
		zap.String("policy", SentimentPolicyVersion),
	)
	return feedback, nil
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func (s *LifecycleService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return appErrors.Internal(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Internal(err, "failed to commit transaction")
	}
	return nil
}

// finish closes the workflow span and counts the outcome by error code.
func (s *LifecycleService) finish(span trace.Span, operation string, err error) {
	tracing.End(span, err)
	outcome := OutcomeSuccess
	if err != nil {
		outcome = appErrors.FromError(err).Code
		if outcome == appErrors.ErrInternal.Code {
			s.logger.Error("lifecycle operation failed", zap.String("operation", operation), zap.Error(err))
		}
	}
	s.metrics.RecordLifecycle(operation, outcome)
}
