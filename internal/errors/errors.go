package errors

import (
	"errors"
	"fmt"
)

// Common error types for the authentication service
var (
	// Validation errors
	ErrValidation = errors.New("validation failed")
	ErrEmailTaken = errors.New("email is already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("email or password does not match")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidRole  = errors.New("invalid role")

	// Resource errors
	ErrNotFound       = errors.New("not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrTenantNotFound = errors.New("tenant not found")

	// Persistence errors. A storage failure always fails closed: callers
	// surface it as a server error, never as an authentication outcome.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
