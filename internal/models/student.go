package models

import "time"

// Student is a college member who registers for events.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CollegeID string    `db:"college_id" json:"college_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	CollegeID string
	Page      int
	PageSize  int
}
