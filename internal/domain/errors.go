package domain

import "fmt"

// ValidationError reports malformed or out-of-range input. Nothing is
// partially applied when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StateError reports an operation that is not allowed in the entity's
// current state. The entity is returned unchanged and no history entry
// is appended for the rejected attempt.
type StateError struct {
	Entity string
	Op     string
	State  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s not allowed in state %q", e.Entity, e.Op, e.State)
}

func NewStateError(entity, op, state string) *StateError {
	return &StateError{Entity: entity, Op: op, State: state}
}

// ConflictError reports an overlapping booking for the same venue and date.
type ConflictError struct {
	VenueID           string
	Date              string
	ConflictingWithID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict: venue %s on %s overlaps booking %s", e.VenueID, e.Date, e.ConflictingWithID)
}
