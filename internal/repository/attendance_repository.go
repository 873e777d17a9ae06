package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// AttendanceRepository handles persistence of check-ins.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ExistsForRegistration reports whether the registration is already checked in.
func (r *AttendanceRepository) ExistsForRegistration(ctx context.Context, exec sqlx.ExtContext, registrationID string) (bool, error) {
	const query = `SELECT 1 FROM attendance WHERE registration_id = $1 LIMIT 1`
	var exists int
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, registrationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return true, nil
}

// Create inserts a check-in. The unique registration_id constraint rejects a second row.
func (r *AttendanceRepository) Create(ctx context.Context, exec sqlx.ExtContext, attendance *models.Attendance) error {
	if attendance.ID == "" {
		attendance.ID = uuid.NewString()
	}
	const query = `INSERT INTO attendance (id, registration_id, checkin_time, status) VALUES ($1, $2, $3, $4)`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, attendance.ID, attendance.RegistrationID, attendance.CheckinTime, attendance.Status); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}
