package render

import "errors"

var (
	ErrInvalidFOV        = errors.New("field of view must be between 0 and pi radians")
	ErrInvalidClipPlanes = errors.New("clip planes must satisfy 0 < near < far")
	ErrInvalidViewport   = errors.New("viewport size must be positive")
	ErrInvalidSize       = errors.New("framebuffer size must be positive")
)
