package services

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UsernameCooldownError is returned when a username change comes too soon after the previous one.
type UsernameCooldownError struct {
	DaysRemaining int
}

func (e *UsernameCooldownError) Error() string {
	return fmt.Sprintf("You can change username again after %d day(s)", e.DaysRemaining)
}

func (e *UsernameCooldownError) Is(target error) bool {
	return target == ErrUsernameChangeTooSoon
}
