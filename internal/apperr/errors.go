// Package apperr defines the error kinds shared by the storefront packages.
// Domain packages wrap one of these sentinels with %w so the HTTP layer can
// map any error to a status code with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrPaymentSession = errors.New("payment session failed")
	ErrPersistence    = errors.New("persistence failure")
)

// Validation returns an ErrValidation carrying a client-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence wraps a store error so it matches both ErrPersistence and the
// original cause.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
