package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// RegistrationRepository handles persistence of registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// FindByID returns a registration or sql.ErrNoRows.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	const query = `SELECT id, student_id, event_id, registered_at FROM registrations WHERE id = $1`
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// LockByID loads a registration with a row lock so concurrent check-ins serialise.
func (r *RegistrationRepository) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Registration, error) {
	const query = `SELECT id, student_id, event_id, registered_at FROM registrations WHERE id = $1 FOR UPDATE`
	var registration models.Registration
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// LockByStudentEvent loads the (student, event) registration with a row lock.
func (r *RegistrationRepository) LockByStudentEvent(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (*models.Registration, error) {
	const query = `SELECT id, student_id, event_id, registered_at FROM registrations WHERE student_id = $1 AND event_id = $2 FOR UPDATE`
	var registration models.Registration
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &registration, query, studentID, eventID); err != nil {
		return nil, err
	}
	return &registration, nil
}

// Exists reports whether the student already holds a registration for the event.
func (r *RegistrationRepository) Exists(ctx context.Context, exec sqlx.ExtContext, studentID, eventID string) (bool, error) {
	const query = `SELECT 1 FROM registrations WHERE student_id = $1 AND event_id = $2 LIMIT 1`
	var exists int
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, studentID, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check registration: %w", err)
	}
	return true, nil
}

// Create inserts a registration stamped with the server time.
func (r *RegistrationRepository) Create(ctx context.Context, exec sqlx.ExtContext, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	if registration.RegisteredAt.IsZero() {
		registration.RegisteredAt = time.Now().UTC()
	}
	const query = `INSERT INTO registrations (id, student_id, event_id, registered_at) VALUES ($1, $2, $3, $4)`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, registration.ID, registration.StudentID, registration.EventID, registration.RegisteredAt); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// ListByEvent returns the registrations of an event with student identity and check-in flag.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	const query = `SELECT r.id, r.student_id, r.event_id, r.registered_at,
        s.name AS student_name, s.email AS student_email,
        (a.id IS NOT NULL) AS checked_in
        FROM registrations r
        JOIN students s ON s.id = r.student_id
        LEFT JOIN attendance a ON a.registration_id = r.id
        WHERE r.event_id = $1
        ORDER BY r.registered_at ASC`
	registrations := make([]models.RegistrationDetail, 0)
	if err := r.db.SelectContext(ctx, &registrations, query, eventID); err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return registrations, nil
}
