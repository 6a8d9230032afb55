package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicate       = errors.New("resource already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("access denied")
	ErrConflict        = errors.New("conflict with current state")
	ErrSchemaViolation = errors.New("value does not match property schema")
	ErrTypeMismatch    = errors.New("category type does not match entity type")
)
