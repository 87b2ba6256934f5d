package world

import "errors"

var (
	// ErrNotFound reports a chunk coordinate absent from storage or the registry.
	ErrNotFound = errors.New("chunk not found")
	// ErrAlreadyLoaded reports a duplicate load of an existing chunk coordinate.
	ErrAlreadyLoaded = errors.New("chunk already loaded")
	// ErrOutOfBounds reports a local voxel coordinate outside [0, AxisSize).
	ErrOutOfBounds = errors.New("local coordinate out of bounds")
)
