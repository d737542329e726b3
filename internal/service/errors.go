package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/shoptrack-be/internal/storage"
)

var (
	// ErrInvalidInput marks missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown login identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredential marks a password that does not match.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrConflict marks a duplicate email or name.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks a list or item the caller does not own. Missing rows
	// report the same error.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable marks a storage call that ran past its deadline.
	ErrUnavailable = errors.New("storage unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageErr translates a storage failure for an ownership-scoped call.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
