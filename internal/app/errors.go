package app

import (
	"errors"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// ErrNotFound is wrapped by every service error caused by a missing entity.
// It is the same sentinel the repositories wrap, so errors.Is matches both.
var ErrNotFound = secondary.ErrNotFound

// ValidationError reports a request that was rejected before touching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// invalid wraps a guard failure (or any rule violation) as a ValidationError.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: err.Error()}
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidNeighborError reports a reorder anchor that is missing, on another
// board, or not in the destination state.
type InvalidNeighborError struct {
	Role   string // "previous" or "next"
	ID     string
	Reason string
}

func (e *InvalidNeighborError) Error() string {
	return e.Reason
}

// notFound wraps ErrNotFound with the entity that is missing.
func notFound(entity, id string) error {
	return fmt.Errorf("%s %s %w", entity, id, ErrNotFound)
}

// isNotFound reports whether err carries ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
