package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow      = errors.New("invalid time window")
	ErrInvalidPartySize   = errors.New("invalid party size")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrInvalidSource      = errors.New("invalid reservation source")
	ErrInvalidTable       = errors.New("invalid table definition")
	ErrMissingReference   = errors.New("missing restaurant or customer id")
	ErrInvalidRequirement = errors.New("invalid special requirement")
)

// TransitionError describes a rejected state machine step.
type TransitionError struct {
	Entity string
	ID     uuid.UUID
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot %s from %q", e.Entity, e.ID, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsValidationError checks if the error is rejected input rather than a state conflict.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidPartySize) ||
		errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrInvalidTable) ||
		errors.Is(err, ErrMissingReference) ||
		errors.Is(err, ErrInvalidRequirement)
}
