package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation           = pq.ErrorCode("23505")
	invalidTextRepresentation = pq.ErrorCode("22P02")
)

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// IsInvalidText reports whether Postgres rejected a literal for its column type,
// such as a malformed uuid in a WHERE clause.
func IsInvalidText(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == invalidTextRepresentation
	}
	return false
}

// ConstraintName returns the violated constraint, or "" when err is not a pq error.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
