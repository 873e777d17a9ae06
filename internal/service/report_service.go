package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

// Report limits.
const (
	DefaultPopularityLimit    = 10
	DefaultParticipationLimit = 50
	DefaultTopStudentsLimit   = 10
	DefaultUpcomingDays       = 30
	MaxReportLimit            = 500
)

type reportRepository interface {
	EventPopularity(ctx context.Context, filter models.ReportFilter) ([]models.EventPopularityRow, error)
	Attendance(ctx context.Context, filter models.ReportFilter) ([]models.AttendanceReportRow, error)
	Feedback(ctx context.Context, filter models.ReportFilter) ([]models.FeedbackReportRow, error)
	StudentParticipation(ctx context.Context, filter models.ReportFilter) ([]models.StudentParticipationRow, error)
	UpcomingEvents(ctx context.Context, collegeID string, from, to time.Time) ([]models.Event, error)
}

// ReportService computes read-only aggregations on demand. Nothing is cached.
type ReportService struct {
	repo   reportRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService constructs ReportService.
func NewReportService(repo reportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, logger: logger, now: time.Now}
}

// ClampLimit returns fallback for a non-positive limit and caps it at MaxReportLimit.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxReportLimit {
		return MaxReportLimit
	}
	return limit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AttendancePercentage returns attended/registered as a percentage rounded to two decimals, 0 when nobody registered.
func AttendancePercentage(attended, registered int) float64 {
	if registered <= 0 {
		return 0
	}
	return round2(float64(attended) / float64(registered) * 100)
}

// EventPopularity ranks events by registrations, highest first.
func (s *ReportService) EventPopularity(ctx context.Context, filter models.ReportFilter) ([]models.EventPopularityRow, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, err
	}
	filter.Limit = ClampLimit(filter.Limit, DefaultPopularityLimit)
	rows, err := s.repo.EventPopularity(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build event popularity report")
	}
	return rows, nil
}

// Attendance reports registered and attended counts with the attendance percentage per event.
func (s *ReportService) Attendance(ctx context.Context, filter models.ReportFilter) ([]models.AttendanceReportRow, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, err
	}
	rows, err := s.repo.Attendance(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build attendance report")
	}
	for i := range rows {
		rows[i].AttendancePercentage = AttendancePercentage(rows[i].Attended, rows[i].Registered)
	}
	return rows, nil
}

// Feedback reports the average rating and sentiment histogram per event.
func (s *ReportService) Feedback(ctx context.Context, filter models.ReportFilter) ([]models.FeedbackReportRow, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, err
	}
	rows, err := s.repo.Feedback(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build feedback report")
	}
	for i := range rows {
		if rows[i].FeedbackCount == 0 {
			rows[i].AverageRating = 0
			continue
		}
		rows[i].AverageRating = round2(rows[i].AverageRating)
	}
	return rows, nil
}

// StudentParticipation ranks students by events attended.
func (s *ReportService) StudentParticipation(ctx context.Context, filter models.ReportFilter) ([]models.StudentParticipationRow, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, err
	}
	filter.Limit = ClampLimit(filter.Limit, DefaultParticipationLimit)
	rows, err := s.repo.StudentParticipation(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build participation report")
	}
	return rows, nil
}

// TopStudents is StudentParticipation across all colleges truncated to limit.
func (s *ReportService) TopStudents(ctx context.Context, limit int) ([]models.StudentParticipationRow, error) {
	return s.StudentParticipation(ctx, models.ReportFilter{Limit: ClampLimit(limit, DefaultTopStudentsLimit)})
}

// UpcomingEvents lists active events within the next daysAhead days, soonest first.
func (s *ReportService) UpcomingEvents(ctx context.Context, collegeID string, daysAhead int) ([]models.Event, error) {
	if err := checkFilterID(collegeID, "college_id"); err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		daysAhead = DefaultUpcomingDays
	}
	if daysAhead > 365 {
		daysAhead = 365
	}
	from := s.now().UTC()
	to := from.AddDate(0, 0, daysAhead)
	events, err := s.repo.UpcomingEvents(ctx, collegeID, from, to)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build upcoming events report")
	}
	return events, nil
}
