package taphold

import "errors"

// Editor errors.
var (
	// ErrNotSingleModifier indicates a modifier option that is not exactly
	// one modifier.
	ErrNotSingleModifier = errors.New("modifier option must be a single modifier")

	// ErrInvalidLayer indicates a layer option outside the firmware's layers.
	ErrInvalidLayer = errors.New("invalid layer option")
)
