package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type catalogService interface {
	ListColleges(ctx context.Context) ([]models.College, error)
	GetCollege(ctx context.Context, id string) (*models.College, error)
	CreateCollege(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	ListManagers(ctx context.Context, filter models.EventManagerFilter) ([]models.EventManager, *models.Pagination, error)
	GetManager(ctx context.Context, id string) (*models.EventManager, error)
	CreateManager(ctx context.Context, req dto.CreateEventManagerRequest) (*models.EventManager, error)
}

// CatalogHandler exposes college, student and event manager endpoints.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListColleges godoc
// @Summary List colleges
// @Tags Colleges
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /colleges [get]
func (h *CatalogHandler) ListColleges(c *gin.Context) {
	colleges, err := h.catalog.ListColleges(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, colleges, nil)
}

// GetCollege godoc
// @Summary Get college
// @Tags Colleges
// @Produce json
// @Param id path string true "College ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /colleges/{id} [get]
func (h *CatalogHandler) GetCollege(c *gin.Context) {
	college, err := h.catalog.GetCollege(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, college, nil)
}

// CreateCollege godoc
// @Summary Create college
// @Tags Colleges
// @Accept json
// @Produce json
// @Param payload body dto.CreateCollegeRequest true "College payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /colleges [post]
func (h *CatalogHandler) CreateCollege(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if !bindJSON(c, &req) {
		return
	}
	college, err := h.catalog.CreateCollege(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, college)
}

// ListStudents godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	filter := models.StudentFilter{CollegeID: c.Query("college_id")}
	filter.Page, filter.PageSize = pageQuery(c)
	students, pagination, err := h.catalog.ListStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// GetStudent godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	student, err := h.catalog.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// CreateStudent godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *CatalogHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.catalog.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// ListManagers godoc
// @Summary List event managers
// @Tags EventManagers
// @Produce json
// @Param college_id query string false "Filter by college"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /event-managers [get]
func (h *CatalogHandler) ListManagers(c *gin.Context) {
	filter := models.EventManagerFilter{CollegeID: c.Query("college_id")}
	filter.Page, filter.PageSize = pageQuery(c)
	managers, pagination, err := h.catalog.ListManagers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, managers, pagination)
}

// GetManager godoc
// @Summary Get event manager
// @Tags EventManagers
// @Produce json
// @Param id path string true "Event manager ID"
// @Success 200 {object} response.Envelope
// @Router /event-managers/{id} [get]
func (h *CatalogHandler) GetManager(c *gin.Context) {
	manager, err := h.catalog.GetManager(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, manager, nil)
}

// CreateManager godoc
// @Summary Create event manager
// @Tags EventManagers
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventManagerRequest true "Event manager payload"
// @Success 201 {object} response.Envelope
// @Router /event-managers [post]
func (h *CatalogHandler) CreateManager(c *gin.Context) {
	var req dto.CreateEventManagerRequest
	if !bindJSON(c, &req) {
		return
	}
	manager, err := h.catalog.CreateManager(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, manager)
}
