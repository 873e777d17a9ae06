package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.EventStatus) error
}

type collegeReader interface {
	FindByID(ctx context.Context, id string) (*models.College, error)
}

type managerReader interface {
	FindByID(ctx context.Context, id string) (*models.EventManager, error)
}

type eventRegistrationLister interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// EventService manages events and their status transitions.
type EventService struct {
	events        eventRepository
	colleges      collegeReader
	managers      managerReader
	registrations eventRegistrationLister
	tx            txProvider
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewEventService constructs EventService.
func NewEventService(events eventRepository, colleges collegeReader, managers managerReader, registrations eventRegistrationLister, tx txProvider, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{events: events, colleges: colleges, managers: managers, registrations: registrations, tx: tx, validator: validate, logger: logger}
}

// ParseStatusFilter resolves the ?status= query value. Empty means active; "all" disables the filter.
func ParseStatusFilter(raw string) (models.EventStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return models.EventStatusActive, nil
	case "all":
		return "", nil
	}
	status := models.EventStatus(raw)
	if !status.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown event status %q", raw))
	}
	return status, nil
}

// List returns events with pagination metadata.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, nil, err
	}
	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list events")
	}
	return events, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	if err := checkID(id, "event not found"); err != nil {
		return nil, err
	}
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event not found", "failed to load event")
	}
	return event, nil
}

// Create schedules a new active event with an empty registration count.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if _, err := s.colleges.FindByID(ctx, req.CollegeID); err != nil {
		return nil, lookupError(err, "college not found", "failed to load college")
	}
	manager, err := s.managers.FindByID(ctx, req.ManagerID)
	if err != nil {
		return nil, lookupError(err, "event manager not found", "failed to load event manager")
	}
	if manager.CollegeID != req.CollegeID {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "event manager does not belong to college")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Date:        req.Date.UTC(),
		Capacity:    req.Capacity,
		Status:      models.EventStatusActive,
		CollegeID:   req.CollegeID,
		ManagerID:   req.ManagerID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Internal(err, "failed to create event")
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("college_id", event.CollegeID), zap.Int("capacity", event.Capacity))
	return event, nil
}

// UpdateStatus moves an event to a new status under a row lock.
func (s *EventService) UpdateStatus(ctx context.Context, id string, req dto.UpdateEventStatusRequest) (event *models.Event, err error) {
	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if err = checkID(id, "event not found"); err != nil {
		return nil, err
	}
	next := models.EventStatus(req.Status)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	event, err = s.events.LockByID(ctx, tx, id)
	if err != nil {
		return nil, lookupError(err, "event not found", "failed to load event")
	}
	if !event.Status.CanTransitionTo(next) {
		err = appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("cannot change event status from %s to %s", event.Status, next))
		return nil, err
	}
	if err = s.events.UpdateStatus(ctx, tx, id, next); err != nil {
		err = appErrors.Internal(err, "failed to update event status")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Internal(err, "failed to commit event status")
		return nil, err
	}

	s.logger.Info("event status changed", zap.String("event_id", id), zap.String("from", string(event.Status)), zap.String("to", string(next)))
	event.Status = next
	return event, nil
}

// ListRegistrations returns the registrations of an existing event.
func (s *EventService) ListRegistrations(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	if err := checkID(eventID, "event not found"); err != nil {
		return nil, err
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, lookupError(err, "event not found", "failed to load event")
	}
	registrations, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list registrations")
	}
	return registrations, nil
}
