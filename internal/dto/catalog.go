package dto

import "time"

// CreateCollegeRequest is the POST /colleges payload.
type CreateCollegeRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
}

// CreateStudentRequest is the POST /students payload.
type CreateStudentRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=200"`
	Email     string `json:"email" validate:"required,email"`
	CollegeID string `json:"college_id" validate:"required,uuid"`
}

// CreateEventManagerRequest is the POST /event-managers payload.
type CreateEventManagerRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=200"`
	Email     string `json:"email" validate:"required,email"`
	CollegeID string `json:"college_id" validate:"required,uuid"`
}

// CreateEventRequest is the POST /events payload.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"max=4000"`
	Type        string    `json:"type" validate:"required,max=50"`
	Date        time.Time `json:"date" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
	CollegeID   string    `json:"college_id" validate:"required,uuid"`
	ManagerID   string    `json:"manager_id" validate:"required,uuid"`
}

// UpdateEventStatusRequest is the PATCH /events/:id/status payload.
type UpdateEventStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active cancelled postponed"`
}
