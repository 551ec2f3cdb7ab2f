package repository

import (
	"errors"
)

var (
	// ErrFileNotFound is returned when a lookup by id matches no row.
	ErrFileNotFound = errors.New("file metadata not found")

	// ErrDatabase wraps any failure of the underlying store: constraint
	// violations, malformed statements, connectivity.
	ErrDatabase = errors.New("database operation failed")

	// ErrInvalidAttribute is returned when a filter references a field that
	// does not correspond to any metadata attribute.
	ErrInvalidAttribute = errors.New("unknown filter attribute")

	// ErrNoConditions is returned when a bulk delete is attempted with no
	// filter at all, refusing a full-table wipe.
	ErrNoConditions = errors.New("no filter conditions provided")

	// ErrMapping is returned when a record cannot be translated between its
	// domain and row representations.
	ErrMapping = errors.New("metadata mapping failed")
)
