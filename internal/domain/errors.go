package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services. Controllers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Registration flow errors. All are business-rule rejections and are never retried.
var (
	ErrEventNotFound         = fmt.Errorf("event %w", ErrNotFound)
	ErrEventFull             = errors.New("event is full")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrRegistrationNotFound  = fmt.Errorf("registration %w", ErrNotFound)
	ErrAlreadyCheckedIn      = errors.New("registration already checked in")
)

// ErrCapacityRaceLost is returned when the atomic seat increment fails after the
// availability pre-check passed. It also matches ErrEventFull under errors.Is.
var ErrCapacityRaceLost = &capacityRaceLostError{}

type capacityRaceLostError struct{}

func (e *capacityRaceLostError) Error() string { return "event filled up while registering" }

func (e *capacityRaceLostError) Is(target error) bool { return target == ErrEventFull }

// InvalidInputError wraps a validation message so it matches ErrInvalidInput.
func InvalidInputError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
