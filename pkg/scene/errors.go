package scene

import "errors"

var (
	// ErrInvalidHandle is returned for handles that were never issued or
	// whose object was removed.
	ErrInvalidHandle = errors.New("invalid object handle")

	// ErrParentCycle is returned when a parent assignment would make an
	// object its own ancestor.
	ErrParentCycle = errors.New("parent cycle")

	// ErrUnknownShape is returned for scene file objects with an
	// unrecognized shape.
	ErrUnknownShape = errors.New("unknown shape")

	// ErrInvalidColor is returned for colors that are not "R,G,B".
	ErrInvalidColor = errors.New("invalid color")
)

// ErrUnknownParent is returned for scene file objects whose parent name
// matches no object.
var ErrUnknownParent = errors.New("unknown parent")
