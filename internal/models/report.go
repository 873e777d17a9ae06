package models

import "time"

// ReportType enumerates the exportable reports.
type ReportType string

const (
	ReportEventPopularity      ReportType = "event-popularity"
	ReportAttendance           ReportType = "attendance"
	ReportFeedback             ReportType = "feedback"
	ReportStudentParticipation ReportType = "student-participation"
	ReportUpcomingEvents       ReportType = "upcoming-events"
)

// ReportFilter carries the optional filters shared by report queries.
type ReportFilter struct {
	CollegeID string
	EventType string
	Limit     int
}

// EventPopularityRow ranks an event by registrations.
type EventPopularityRow struct {
	EventID       string `db:"event_id" json:"event_id"`
	Title         string `db:"title" json:"title"`
	Registrations int    `db:"registrations" json:"registrations"`
}

// AttendanceReportRow compares registrations with check-ins for one event.
type AttendanceReportRow struct {
	EventID              string  `db:"event_id" json:"event_id"`
	Title                string  `db:"title" json:"title"`
	Registered           int     `db:"registered" json:"registered"`
	Attended             int     `db:"attended" json:"attended"`
	AttendancePercentage float64 `db:"-" json:"attendance_percentage"`
}

// SentimentDistribution counts feedback per sentiment.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// FeedbackReportRow summarises the feedback of one event.
type FeedbackReportRow struct {
	EventID               string                `db:"event_id" json:"event_id"`
	Title                 string                `db:"title" json:"title"`
	AverageRating         float64               `db:"average_rating" json:"average_rating"`
	FeedbackCount         int                   `db:"feedback_count" json:"feedback_count"`
	SentimentDistribution SentimentDistribution `db:"-" json:"sentiment_distribution"`
}

// StudentParticipationRow counts events a student checked in to.
type StudentParticipationRow struct {
	StudentID      string `db:"student_id" json:"student_id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	EventsAttended int    `db:"events_attended" json:"events_attended"`
}

// ReportExport describes a rendered report file and its signed download link.
type ReportExport struct {
	ID          string     `json:"id"`
	Report      ReportType `json:"report"`
	Format      string     `json:"format"`
	Rows        int        `json:"rows"`
	DownloadURL string     `json:"download_url"`
	ExpiresAt   time.Time  `json:"expires_at"`
}
