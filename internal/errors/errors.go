package errors

import (
	"errors"
	"fmt"
)

// Common error types shared across the portal client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")

	// Token errors
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrRefreshFailed = errors.New("refresh token rejected")

	// Authorization errors
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidRole = errors.New("invalid role")

	// Storage errors
	ErrNoStoredState = errors.New("no stored authentication state")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
