package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Driver messages for unique-constraint violations, matched only when
// the handle was opened without TranslateError (tests and migrations
// open plain connections).
var duplicateKeyFragments = []string{
	"duplicate key value violates unique constraint", // postgres 23505
	"Error 1062",                                     // mysql ER_DUP_ENTRY
	"UNIQUE constraint failed",                       // sqlite 2067
}

// IsDuplicateKeyErr reports whether err is a unique-key violation.
// Connections from Open translate these into gorm.ErrDuplicatedKey;
// raw driver errors fall back to message matching.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, fragment := range duplicateKeyFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
