package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	sqliteConstraintCode           = 19
	sqliteConstraintForeignKeyCode = 787
	pgForeignKeyViolation          = "23503"
)

// isForeignKeyViolation reports whether err is a foreign key constraint
// failure from either backend.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgForeignKeyViolation
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		code := coder.Code()
		if code == sqliteConstraintForeignKeyCode {
			return true
		}
		if code&0xff == sqliteConstraintCode && strings.Contains(strings.ToUpper(err.Error()), "FOREIGN KEY") {
			return true
		}
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
