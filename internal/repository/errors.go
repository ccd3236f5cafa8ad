package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a write violates the email
	// uniqueness constraint
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when a write violates the username
	// uniqueness constraint
	ErrDuplicateUsername = errors.New("user with this username already exists")
)
