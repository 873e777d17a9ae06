package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// StudentRepository handles persistence of students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students, optionally for a single college, with the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var conds conditions
	if filter.CollegeID != "" {
		conds.add("college_id = $%d", filter.CollegeID)
	}
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT id, name, email, college_id, created_at FROM students%s ORDER BY name ASC LIMIT %d OFFSET %d`, conds.where(), limit, offset)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a student or sql.ErrNoRows. A non-nil exec joins that transaction.
func (r *StudentRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error) {
	const query = `SELECT id, name, email, college_id, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a student. Duplicate emails surface as a unique violation.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (id, name, email, college_id, created_at)
        VALUES (:id, :name, :email, :college_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
