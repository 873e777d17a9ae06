package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateEventStatusRequest) (*models.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]models.RegistrationDetail, error)
}

// EventHandler exposes event endpoints.
type EventHandler struct {
	events eventService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events eventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List events
// @Description Status defaults to active; status=all lists every event.
// @Tags Events
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param event_type query string false "Filter by type"
// @Param status query string false "active, cancelled, postponed or all"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	status, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.EventFilter{CollegeID: c.Query("college_id"), Type: c.Query("event_type"), Status: status}
	filter.Page, filter.PageSize = pageQuery(c)

	events, pagination, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateStatus godoc
// @Summary Change event status
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/status [patch]
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEventStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Registrations godoc
// @Summary List registrations of an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/registrations [get]
func (h *EventHandler) Registrations(c *gin.Context) {
	registrations, err := h.events.ListRegistrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, nil)
}
