package store

import (
	"errors"
	"strings"
)

// Sentinel errors for the store layer. Handlers turn these into the API's
// structured failure bodies; anything else is an internal error.
var (
	// ErrNotFound indicates an update or delete matched no rows.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint was violated (duplicate team
	// or test name).
	ErrConflict = errors.New("already exists")

	// ErrReferential indicates a foreign key did not resolve (score created
	// against a missing team or test, or a delete of a still-referenced row).
	ErrReferential = errors.New("referential integrity violation")
)

// classify maps driver constraint errors onto the sentinels above. Matched by
// message text: pgdriver reports "duplicate key value" / "foreign key
// constraint", sqlite reports "UNIQUE constraint" / "FOREIGN KEY constraint".
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key value"), strings.Contains(msg, "unique constraint"):
		return ErrConflict
	case strings.Contains(msg, "foreign key"):
		return ErrReferential
	}
	return err
}
