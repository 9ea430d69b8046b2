package service

import (
	"fmt"

	"picktrack/models"

	"github.com/google/uuid"
)

// ValidationError reports malformed input rejected before any grading runs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a pick id that does not exist, or a team/time query
// that matched no pending picks. No state was changed.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// NewNotFoundError creates a NotFoundError with a formatted message
func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// AlreadySettledError reports an attempt to grade a pick that is not pending.
type AlreadySettledError struct {
	PickID uuid.UUID
	Status models.PickStatus
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("pick %s is already settled with status %q", e.PickID, e.Status)
}
