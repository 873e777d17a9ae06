package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// CollegeRepository handles persistence of colleges.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository constructs the repository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// List returns every college ordered by name.
func (r *CollegeRepository) List(ctx context.Context) ([]models.College, error) {
	const query = `SELECT id, name, created_at FROM colleges ORDER BY name ASC`
	colleges := make([]models.College, 0)
	if err := r.db.SelectContext(ctx, &colleges, query); err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	return colleges, nil
}

// FindByID returns a college or sql.ErrNoRows.
func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*models.College, error) {
	const query = `SELECT id, name, created_at FROM colleges WHERE id = $1`
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, id); err != nil {
		return nil, err
	}
	return &college, nil
}

// Create inserts a college. Duplicate names surface as a unique violation.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	if college.ID == "" {
		college.ID = uuid.NewString()
	}
	if college.CreatedAt.IsZero() {
		college.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO colleges (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, college); err != nil {
		return fmt.Errorf("create college: %w", err)
	}
	return nil
}
