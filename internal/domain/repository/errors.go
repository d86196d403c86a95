package repository

import "errors"

// Sentinel errors every store implementation maps its driver errors onto.
var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique-constraint violation (email or username).
	ErrDuplicate = errors.New("duplicate key")
	// ErrConstraint reports any other integrity-constraint violation.
	ErrConstraint = errors.New("constraint violation")
)
