package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type collegeRepository interface {
	List(ctx context.Context) ([]models.College, error)
	FindByID(ctx context.Context, id string) (*models.College, error)
	Create(ctx context.Context, college *models.College) error
}

type studentCatalogRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, student *models.Student) error
}

type managerRepository interface {
	List(ctx context.Context, filter models.EventManagerFilter) ([]models.EventManager, int, error)
	FindByID(ctx context.Context, id string) (*models.EventManager, error)
	Create(ctx context.Context, manager *models.EventManager) error
}

// CatalogService manages colleges, students and event managers.
type CatalogService struct {
	colleges  collegeRepository
	students  studentCatalogRepository
	studentDB studentReader
	managers  managerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(colleges collegeRepository, students studentCatalogRepository, studentDB studentReader, managers managerRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{colleges: colleges, students: students, studentDB: studentDB, managers: managers, validator: validate, logger: logger}
}

// ListColleges returns every college.
func (s *CatalogService) ListColleges(ctx context.Context) ([]models.College, error) {
	colleges, err := s.colleges.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list colleges")
	}
	return colleges, nil
}

// GetCollege returns a college by ID.
func (s *CatalogService) GetCollege(ctx context.Context, id string) (*models.College, error) {
	if err := checkID(id, "college not found"); err != nil {
		return nil, err
	}
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "college not found", "failed to load college")
	}
	return college, nil
}

// CreateCollege registers a college with a unique name.
func (s *CatalogService) CreateCollege(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}
	college := &models.College{Name: req.Name}
	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, writeError(err, "college name already exists", "failed to create college")
	}
	s.logger.Info("college created", zap.String("college_id", college.ID))
	return college, nil
}

// ListStudents returns students with pagination metadata.
func (s *CatalogService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, nil, err
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, pagination(filter.Page, filter.PageSize, total), nil
}

// GetStudent returns a student by ID.
func (s *CatalogService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	if err := checkID(id, "student not found"); err != nil {
		return nil, err
	}
	student, err := s.studentDB.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// CreateStudent registers a student in an existing college.
func (s *CatalogService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, err := s.colleges.FindByID(ctx, req.CollegeID); err != nil {
		return nil, lookupError(err, "college not found", "failed to load college")
	}
	student := &models.Student{Name: strings.TrimSpace(req.Name), Email: req.Email, CollegeID: req.CollegeID}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, writeError(err, "student email already registered", "failed to create student")
	}
	return student, nil
}

// ListManagers returns event managers with pagination metadata.
func (s *CatalogService) ListManagers(ctx context.Context, filter models.EventManagerFilter) ([]models.EventManager, *models.Pagination, error) {
	if err := checkFilterID(filter.CollegeID, "college_id"); err != nil {
		return nil, nil, err
	}
	managers, total, err := s.managers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list event managers")
	}
	return managers, pagination(filter.Page, filter.PageSize, total), nil
}

// GetManager returns an event manager by ID.
func (s *CatalogService) GetManager(ctx context.Context, id string) (*models.EventManager, error) {
	if err := checkID(id, "event manager not found"); err != nil {
		return nil, err
	}
	manager, err := s.managers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "event manager not found", "failed to load event manager")
	}
	return manager, nil
}

// CreateManager registers an event manager in an existing college.
func (s *CatalogService) CreateManager(ctx context.Context, req dto.CreateEventManagerRequest) (*models.EventManager, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event manager payload")
	}
	if _, err := s.colleges.FindByID(ctx, req.CollegeID); err != nil {
		return nil, lookupError(err, "college not found", "failed to load college")
	}
	manager := &models.EventManager{Name: strings.TrimSpace(req.Name), Email: req.Email, CollegeID: req.CollegeID}
	if err := s.managers.Create(ctx, manager); err != nil {
		return nil, writeError(err, "event manager email already registered", "failed to create event manager")
	}
	return manager, nil
}
