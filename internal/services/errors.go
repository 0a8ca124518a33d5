package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Services wrap one of these with context; handlers map the
// class to an HTTP status with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication failed")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrPersistence     = errors.New("persistence failure")
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: user already exists", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthenticated)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrDeckNotFound       = fmt.Errorf("%w: deck not found", ErrNotFound)
	ErrPublicDeckNotFound = fmt.Errorf("%w: public deck not found", ErrNotFound)
	ErrCardNotFound       = fmt.Errorf("%w: card not found in this deck", ErrNotFound)
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// persistenceError keeps the store error in the chain for logging while
// classifying it as ErrPersistence.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// Message returns the client-facing part of a classified error.
func Message(err error) string {
	for _, class := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound} {
		if errors.Is(err, class) {
			return strings.TrimPrefix(err.Error(), class.Error()+": ")
		}
	}
	return "Internal server error"
}
