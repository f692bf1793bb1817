package easel

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a pixel outside the surface is addressed.
	ErrOutOfBounds = errors.New("pixel coordinate out of bounds")
	// ErrNoHistory is returned by an undo attempted at the history floor.
	ErrNoHistory = errors.New("nothing to undo")
	// ErrNoFuture is returned by a redo with an empty redo stack.
	ErrNoFuture = errors.New("nothing to redo")
	// ErrInvalidSize is returned for non-positive canvas dimensions.
	ErrInvalidSize = errors.New("canvas dimensions must be positive integers")
	// ErrUnknownTool is returned when selecting a tool that does not exist.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrUnknownShape is returned when selecting a shape that does not exist.
	ErrUnknownShape = errors.New("unknown shape")
)

// UserError reports a failed user action (undo/redo at a history boundary,
// invalid resize dimensions). It is meant to be shown to the user; the
// session state is left unchanged.
type UserError struct {
	Op  string
	Err error
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is (or wraps) a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
