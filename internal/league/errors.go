package league

import (
	"errors"
	"fmt"
)

// ValidationError is a malformed input or a broken business rule. Its message
// is shown to the user as is.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError names the kind of record that does not exist.
type NotFoundError struct {
	Entity string
}

func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// PermissionError is returned when someone other than the organizer attempts
// an organizer-only action.
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("only the match organizer can %s", e.Action)
}

var (
	ErrInvalidStatus     = NewValidationError("invalid status")
	ErrInsufficientTeams = NewValidationError("at least two teams are needed to randomize")
	ErrNoPlayers         = NewValidationError("no confirmed players to assign")

	ErrMatchFinalized   = errors.New("match is finalized and can no longer be changed")
	ErrAlreadyFinalized = errors.New("match has already been finalized")

	// ErrStoreBusy means the database lock could not be taken in time. The
	// request may be retried.
	ErrStoreBusy = errors.New("league database is busy, try again")
)
