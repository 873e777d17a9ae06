package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// EventManagerRepository handles persistence of event managers.
type EventManagerRepository struct {
	db *sqlx.DB
}

// NewEventManagerRepository constructs the repository.
func NewEventManagerRepository(db *sqlx.DB) *EventManagerRepository {
	return &EventManagerRepository{db: db}
}

// List returns managers, optionally for a single college, with the total count.
func (r *EventManagerRepository) List(ctx context.Context, filter models.EventManagerFilter) ([]models.EventManager, int, error) {
	var conds conditions
	if filter.CollegeID != "" {
		conds.add("college_id = $%d", filter.CollegeID)
	}
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT id, name, email, college_id, created_at FROM event_managers%s ORDER BY name ASC LIMIT %d OFFSET %d`, conds.where(), limit, offset)
	managers := make([]models.EventManager, 0)
	if err := r.db.SelectContext(ctx, &managers, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list event managers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM event_managers"+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count event managers: %w", err)
	}
	return managers, total, nil
}

// FindByID returns a manager or sql.ErrNoRows.
func (r *EventManagerRepository) FindByID(ctx context.Context, id string) (*models.EventManager, error) {
	const query = `SELECT id, name, email, college_id, created_at FROM event_managers WHERE id = $1`
	var manager models.EventManager
	if err := r.db.GetContext(ctx, &manager, query, id); err != nil {
		return nil, err
	}
	return &manager, nil
}

// Create inserts a manager. Duplicate emails surface as a unique violation.
func (r *EventManagerRepository) Create(ctx context.Context, manager *models.EventManager) error {
	if manager.ID == "" {
		manager.ID = uuid.NewString()
	}
	if manager.CreatedAt.IsZero() {
		manager.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO event_managers (id, name, email, college_id, created_at)
        VALUES (:id, :name, :email, :college_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, manager); err != nil {
		return fmt.Errorf("create event manager: %w", err)
	}
	return nil
}
