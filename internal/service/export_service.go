package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/export"
	"github.com/noah-isme/campus-events-api/pkg/storage"
)

type reportSource interface {
	EventPopularity(ctx context.Context, filter models.ReportFilter) ([]models.EventPopularityRow, error)
	Attendance(ctx context.Context, filter models.ReportFilter) ([]models.AttendanceReportRow, error)
	Feedback(ctx context.Context, filter models.ReportFilter) ([]models.FeedbackReportRow, error)
	StudentParticipation(ctx context.Context, filter models.ReportFilter) ([]models.StudentParticipationRow, error)
	UpcomingEvents(ctx context.Context, collegeID string, daysAhead int) ([]models.Event, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(age time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	Retention time.Duration
}

// ExportDownload is an opened export ready to stream.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ExportService renders reports to CSV or PDF, stores the file and issues a signed download link.
type ExportService struct {
	reports   reportSource
	storage   fileStorage
	renderers map[export.Format]export.Renderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportSource, store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ExportService{
		reports: reports,
		storage: store,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Export renders the requested report and returns its signed download link.
func (s *ExportService) Export(ctx context.Context, req dto.ExportReportRequest) (*models.ReportExport, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	format := export.Format(req.Format)

	dataset, err := s.buildDataset(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := s.renderers[format].Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	exportID := uuid.NewString()
	relPath, err := s.storage.Save(export.Filename(dataset.Title+" "+exportID[:8], format, s.now()), payload)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign export link")
	}
	s.metrics.RecordExport(string(req.Report), string(format))
	s.logger.Info("report exported",
		zap.String("export_id", exportID),
		zap.String("report", string(req.Report)),
		zap.String("format", string(format)),
		zap.Int("rows", len(dataset.Rows)),
	)

	return &models.ReportExport{
		ID:          exportID,
		Report:      req.Report,
		Format:      string(format),
		Rows:        len(dataset.Rows),
		DownloadURL: fmt.Sprintf("%s/exports/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt:   expiresAt,
	}, nil
}

// Open verifies token and opens the export it points at.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	signed, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download link is invalid or expired")
	}
	file, err := s.storage.Open(signed.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
		}
		return nil, appErrors.Internal(err, "failed to open export")
	}
	contentType := export.FormatCSV.ContentType()
	if strings.HasSuffix(signed.Path, "."+string(export.FormatPDF)) {
		contentType = export.FormatPDF.ContentType()
	}
	return &ExportDownload{File: file, Filename: signed.Path, ContentType: contentType, ExpiresAt: signed.ExpiresAt}, nil
}

// Cleanup removes stored exports older than the retention window.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.Retention)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup()
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) buildDataset(ctx context.Context, req dto.ExportReportRequest) (export.Dataset, error) {
	filter := models.ReportFilter{CollegeID: req.CollegeID, EventType: req.EventType, Limit: req.Limit}
	switch req.Report {
	case models.ReportEventPopularity:
		rows, err := s.reports.EventPopularity(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		dataset := export.Dataset{Title: "Event Popularity", Headers: []string{"Event ID", "Title", "Registrations"}}
		for _, row := range rows {
			dataset.Rows = append(dataset.Rows, []string{row.EventID, row.Title, strconv.Itoa(row.Registrations)})
		}
		return dataset, nil
	case models.ReportAttendance:
		rows, err := s.reports.Attendance(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		dataset := export.Dataset{Title: "Attendance", Headers: []string{"Event ID", "Title", "Registered", "Attended", "Attendance (%)"}}
		for _, row := range rows {
			dataset.Rows = append(dataset.Rows, []string{
				row.EventID, row.Title, strconv.Itoa(row.Registered), strconv.Itoa(row.Attended),
				fmt.Sprintf("%.2f", row.AttendancePercentage),
			})
		}
		return dataset, nil
	case models.ReportFeedback:
		rows, err := s.reports.Feedback(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		dataset := export.Dataset{Title: "Feedback", Headers: []string{"Event ID", "Title", "Average Rating", "Feedback", "Positive", "Negative", "Neutral"}}
		for _, row := range rows {
			dist := row.SentimentDistribution
			dataset.Rows = append(dataset.Rows, []string{
				row.EventID, row.Title, fmt.Sprintf("%.2f", row.AverageRating), strconv.Itoa(row.FeedbackCount),
				strconv.Itoa(dist.Positive), strconv.Itoa(dist.Negative), strconv.Itoa(dist.Neutral),
			})
		}
		return dataset, nil
	case models.ReportStudentParticipation:
		rows, err := s.reports.StudentParticipation(ctx, filter)
		if err != nil {
			return export.Dataset{}, err
		}
		dataset := export.Dataset{Title: "Student Participation", Headers: []string{"Student ID", "Name", "Email", "Events Attended"}}
		for _, row := range rows {
			dataset.Rows = append(dataset.Rows, []string{row.StudentID, row.Name, row.Email, strconv.Itoa(row.EventsAttended)})
		}
		return dataset, nil
	case models.ReportUpcomingEvents:
		events, err := s.reports.UpcomingEvents(ctx, req.CollegeID, req.DaysAhead)
		if err != nil {
			return export.Dataset{}, err
		}
		dataset := export.Dataset{Title: "Upcoming Events", Headers: []string{"Event ID", "Title", "Type", "Date", "Capacity", "Registrations"}}
		for _, event := range events {
			dataset.Rows = append(dataset.Rows, []string{
				event.ID, event.Title, event.Type, event.Date.UTC().Format(time.RFC3339),
				strconv.Itoa(event.Capacity), strconv.Itoa(event.RegistrationsCount),
			})
		}
		return dataset, nil
	}
	return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report %q", req.Report))
}
