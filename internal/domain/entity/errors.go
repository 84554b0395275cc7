package entity

import "errors"

var (
	// ErrTileNotFound is returned when a tile id is not in the tree.
	ErrTileNotFound = errors.New("tile not found")
	// ErrContainerNotFound is returned when a container id is not in the tree.
	ErrContainerNotFound = errors.New("container not found")
	// ErrInvalidGeometry is returned for non-integer or negative rectangles.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidTree is returned by Validate when an invariant does not hold.
	ErrInvalidTree = errors.New("invalid layout tree")
)
