package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type reportService interface {
	EventPopularity(ctx context.Context, filter models.ReportFilter) ([]models.EventPopularityRow, error)
	Attendance(ctx context.Context, filter models.ReportFilter) ([]models.AttendanceReportRow, error)
	Feedback(ctx context.Context, filter models.ReportFilter) ([]models.FeedbackReportRow, error)
	StudentParticipation(ctx context.Context, filter models.ReportFilter) ([]models.StudentParticipationRow, error)
	TopStudents(ctx context.Context, limit int) ([]models.StudentParticipationRow, error)
	UpcomingEvents(ctx context.Context, collegeID string, daysAhead int) ([]models.Event, error)
}

type exportService interface {
	Export(ctx context.Context, req dto.ExportReportRequest) (*models.ReportExport, error)
	Open(token string) (*service.ExportDownload, error)
}

// ReportHandler exposes reporting and export endpoints.
type ReportHandler struct {
	reports reportService
	exports exportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, exports exportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

func reportFilter(c *gin.Context) models.ReportFilter {
	return models.ReportFilter{
		CollegeID: c.Query("college_id"),
		EventType: c.Query("event_type"),
		Limit:     intQuery(c, "limit", 0),
	}
}

// EventPopularity godoc
// @Summary Events ranked by registrations
// @Tags Reports
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param event_type query string false "Filter by type"
// @Param limit query int false "Maximum rows (default 10)"
// @Success 200 {object} response.Envelope
// @Router /reports/event-popularity [get]
func (h *ReportHandler) EventPopularity(c *gin.Context) {
	rows, err := h.reports.EventPopularity(c.Request.Context(), reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Attendance godoc
// @Summary Attendance percentage per event
// @Tags Reports
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param event_type query string false "Filter by type"
// @Success 200 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	rows, err := h.reports.Attendance(c.Request.Context(), reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Feedback godoc
// @Summary Average rating and sentiment per event
// @Tags Reports
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param event_type query string false "Filter by type"
// @Success 200 {object} response.Envelope
// @Router /reports/feedback [get]
func (h *ReportHandler) Feedback(c *gin.Context) {
	rows, err := h.reports.Feedback(c.Request.Context(), reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// StudentParticipation godoc
// @Summary Students ranked by events attended
// @Tags Reports
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {object} response.Envelope
// @Router /reports/student-participation [get]
func (h *ReportHandler) StudentParticipation(c *gin.Context) {
	rows, err := h.reports.StudentParticipation(c.Request.Context(), reportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// TopStudents godoc
// @Summary Most active students
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum rows (default 10)"
// @Success 200 {object} response.Envelope
// @Router /reports/top-students [get]
func (h *ReportHandler) TopStudents(c *gin.Context) {
	rows, err := h.reports.TopStudents(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// UpcomingEvents godoc
// @Summary Active events in the coming days
// @Tags Reports
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param days_ahead query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /reports/upcoming-events [get]
func (h *ReportHandler) UpcomingEvents(c *gin.Context) {
	events, err := h.reports.UpcomingEvents(c.Request.Context(), c.Query("college_id"), intQuery(c, "days_ahead", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Export godoc
// @Summary Render a report to CSV or PDF
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportReportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportReportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download a rendered export
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	size := int64(-1)
	if info, statErr := download.File.Stat(); statErr == nil {
		size = info.Size()
	}
	response.Attachment(c, download.Filename, download.ContentType, size, download.File)
}
