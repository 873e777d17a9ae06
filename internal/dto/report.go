package dto

import "github.com/noah-isme/campus-events-api/internal/models"

// ExportReportRequest is the POST /reports/export payload.
type ExportReportRequest struct {
	Report    models.ReportType `json:"report" validate:"required,oneof=event-popularity attendance feedback student-participation upcoming-events"`
	Format    string            `json:"format" validate:"required,oneof=csv pdf"`
	CollegeID string            `json:"college_id,omitempty" validate:"omitempty,uuid"`
	EventType string            `json:"event_type,omitempty"`
	Limit     int               `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	DaysAhead int               `json:"days_ahead,omitempty" validate:"omitempty,min=1,max=365"`
}
