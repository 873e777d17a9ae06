package models

import "time"

// EventStatus represents the lifecycle of an event.
type EventStatus string

// Possible event statuses.
const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusPostponed EventStatus = "postponed"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusActive, EventStatusCancelled, EventStatusPostponed:
		return true
	}
	return false
}

// CanTransitionTo reports whether an event may move from s to next. Cancelled is terminal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusActive:
		return next == EventStatusCancelled || next == EventStatusPostponed
	case EventStatusPostponed:
		return next == EventStatusActive || next == EventStatusCancelled
	}
	return false
}

// Event is a scheduled, capacity-bounded campus event.
type Event struct {
	ID                 string      `db:"id" json:"id"`
	Title              string      `db:"title" json:"title"`
	Description        string      `db:"description" json:"description"`
	Type               string      `db:"type" json:"type"`
	Date               time.Time   `db:"date" json:"date"`
	Capacity           int         `db:"capacity" json:"capacity"`
	RegistrationsCount int         `db:"registrations_count" json:"registrations_count"`
	Status             EventStatus `db:"status" json:"status"`
	CollegeID          string      `db:"college_id" json:"college_id"`
	ManagerID          string      `db:"manager_id" json:"manager_id"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// IsFull reports whether no seats remain.
func (e *Event) IsFull() bool {
	return e.RegistrationsCount >= e.Capacity
}

// Remaining returns the number of open seats, never negative.
func (e *Event) Remaining() int {
	if e.IsFull() {
		return 0
	}
	return e.Capacity - e.RegistrationsCount
}

// EventFilter narrows event listings. An empty Status matches every status.
type EventFilter struct {
	CollegeID string
	Type      string
	Status    EventStatus
	Page      int
	PageSize  int
}
