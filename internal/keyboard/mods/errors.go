package mods

import "errors"

// Modifier errors.
var (
	// ErrUnknownModifier is returned when a modifier name is not one of the
	// eight canonical names.
	ErrUnknownModifier = errors.New("unknown modifier")
)
