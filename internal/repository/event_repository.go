package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

const eventColumns = `id, title, description, type, date, capacity, registrations_count, status, college_id, manager_id, created_at, updated_at`

// EventRepository handles persistence of events and their registration counter.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events ordered by date with the total count for pagination.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	var conds conditions
	if filter.CollegeID != "" {
		conds.add("college_id = $%d", filter.CollegeID)
	}
	if filter.Type != "" {
		conds.add("type = $%d", filter.Type)
	}
	if filter.Status != "" {
		conds.add("status = $%d", filter.Status)
	}
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT %s FROM events%s ORDER BY date ASC, id ASC LIMIT %d OFFSET %d`, eventColumns, conds.where(), limit, offset)
	events := make([]models.Event, 0)
	if err := r.db.SelectContext(ctx, &events, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM events"+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// FindByID returns an event or sql.ErrNoRows.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return r.Get(ctx, nil, id)
}

// Get reads an event without locking it, through exec when one is given.
func (r *EventRepository) Get(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var event models.Event
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// LockByID loads the event with a row lock held until exec commits.
// Registrations for one event are serialised on this lock.
func (r *EventRepository) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	var event models.Event
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts an event with a zero registration count.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Status == "" {
		event.Status = models.EventStatusActive
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.RegistrationsCount = 0
	const query = `INSERT INTO events (id, title, description, type, date, capacity, registrations_count, status, college_id, manager_id, created_at, updated_at)
        VALUES (:id, :title, :description, :type, :date, :capacity, :registrations_count, :status, :college_id, :manager_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateStatus sets the event status.
func (r *EventRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.EventStatus) error {
	const query = `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return nil
}

// IncrementRegistrations adds one seat to the counter. It refuses to pass capacity and
// returns ErrCapacityReached instead.
func (r *EventRepository) IncrementRegistrations(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `UPDATE events SET registrations_count = registrations_count + 1, updated_at = NOW()
        WHERE id = $1 AND registrations_count < capacity`
	res, err := pick(r.db, exec).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment registrations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment registrations: %w", err)
	}
	if affected == 0 {
		return ErrCapacityReached
	}
	return nil
}
