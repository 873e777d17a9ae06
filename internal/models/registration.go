package models

import "time"

// Registration links a student to an event. At most one exists per (student, event).
type Registration struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	EventID      string    `db:"event_id" json:"event_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// RegistrationDetail adds the student identity for per-event listings.
type RegistrationDetail struct {
	Registration
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	CheckedIn    bool   `db:"checked_in" json:"checked_in"`
}
