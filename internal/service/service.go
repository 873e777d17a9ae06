package service

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/database"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

// lookupError maps a repository read failure to NotFound or an internal error.
// A key Postgres cannot parse matches no row either.
func lookupError(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) || database.IsInvalidText(err) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}

// checkID rejects identifiers that cannot name a stored row.
func checkID(id, notFound string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return nil
}

// checkFilterID validates an optional uuid filter value.
func checkFilterID(id, field string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, field+" must be a valid uuid")
	}
	return nil
}

// writeError maps a repository write failure to DuplicateEntry or an internal error.
func writeError(err error, duplicate, internal string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrDuplicateEntry, duplicate)
	}
	return appErrors.Internal(err, internal)
}

func pagination(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
