package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrCapacityReached is returned when a seat increment finds the event already full.
var ErrCapacityReached = errors.New("event capacity reached")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pick returns exec when non-nil so reads and writes can join a caller's transaction.
func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

// pageBounds normalises page/size and returns the limit and offset.
func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

// conditions accumulates positional WHERE clauses.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}
