package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// uniqueViolations are the driver messages for unique-constraint failures
// when gorm error translation is off or the driver is not recognised.
var uniqueViolations = []string{
	// postgres 23505
	"duplicate key value violates unique constraint",
	// mysql 1062
	"Error 1062",
	// sqlite 2067
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation on any supported dialect.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range uniqueViolations {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
