package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type lifecycleService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.Registration, error)
	Checkin(ctx context.Context, req dto.CheckinRequest) (*models.Attendance, error)
	SubmitFeedback(ctx context.Context, req dto.FeedbackRequest) (*models.Feedback, error)
}

type qrService interface {
	Registration(ctx context.Context, registrationID string) (*dto.RegistrationQRResponse, bool, error)
}

// LifecycleHandler exposes registration, check-in and feedback endpoints.
type LifecycleHandler struct {
	lifecycle lifecycleService
	qr        qrService
}

// NewLifecycleHandler constructs LifecycleHandler.
func NewLifecycleHandler(lifecycle lifecycleService, qr qrService) *LifecycleHandler {
	return &LifecycleHandler{lifecycle: lifecycle, qr: qr}
}

// Register godoc
// @Summary Register a student for an event
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /registrations [post]
func (h *LifecycleHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) || !actsForStudent(c, req.StudentID) {
		return
	}
	registration, err := h.lifecycle.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// Checkin godoc
// @Summary Check in a registration
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param payload body dto.CheckinRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/checkin [post]
func (h *LifecycleHandler) Checkin(c *gin.Context) {
	var req dto.CheckinRequest
	if !bindJSON(c, &req) {
		return
	}
	attendance, err := h.lifecycle.Checkin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attendance)
}

// Feedback godoc
// @Summary Submit event feedback
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param payload body dto.FeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /feedback [post]
func (h *LifecycleHandler) Feedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if !bindJSON(c, &req) || !actsForStudent(c, req.StudentID) {
		return
	}
	feedback, err := h.lifecycle.SubmitFeedback(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// QRCode godoc
// @Summary Registration QR code
// @Tags Lifecycle
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/qr [get]
func (h *LifecycleHandler) QRCode(c *gin.Context) {
	qr, hit, err := h.qr.Registration(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, qr, nil, middleware.Meta(c))
}
