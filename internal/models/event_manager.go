package models

import "time"

// EventManager organises events on behalf of a college.
type EventManager struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CollegeID string    `db:"college_id" json:"college_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EventManagerFilter narrows manager listings.
type EventManagerFilter struct {
	CollegeID string
	Page      int
	PageSize  int
}
