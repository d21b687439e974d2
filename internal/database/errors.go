package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Error kinds returned by the repositories. Callers can tell a missing row
// from a constraint violation from a store that cannot be reached.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateISBN     = errors.New("isbn already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRating     = errors.New("rating must be between 0.0 and 5.0")
	ErrInvalidStatus     = errors.New("unknown reading status")
	ErrUnavailable       = errors.New("storage unavailable")
)

// IsUniqueViolation reports whether err comes from a SQLite unique
// constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsUnavailable reports whether err means the store itself cannot serve the
// operation, as opposed to a per-row condition.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return true
		}
	}
	return false
}

// IsNotFound reports whether err represents a missing row, from either this
// package or GORM directly.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
