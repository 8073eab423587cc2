package domain

import "fmt"

// ValidationError reports a missing or invalid request field. The external
// layer surfaces it as a 4xx-equivalent naming the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a named field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// GraphIntegrityError reports connections referencing unknown component ids.
// The engine itself skips dangling ids; this error is raised by
// the model loader before the engine runs.
type GraphIntegrityError struct {
	ComponentID string
	DanglingID  string
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("component %q references unknown component %q", e.ComponentID, e.DanglingID)
}
