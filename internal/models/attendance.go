package models

import "time"

// AttendanceStatus tells whether a check-in happened within the grace window.
type AttendanceStatus string

const (
	AttendanceStatusOnTime AttendanceStatus = "on-time"
	AttendanceStatusLate   AttendanceStatus = "late"
)

// Attendance records a check-in for exactly one registration.
type Attendance struct {
	ID             string           `db:"id" json:"id"`
	RegistrationID string           `db:"registration_id" json:"registration_id"`
	CheckinTime    time.Time        `db:"checkin_time" json:"checkin_time"`
	Status         AttendanceStatus `db:"status" json:"status"`
}
