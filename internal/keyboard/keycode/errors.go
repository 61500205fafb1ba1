package keycode

import "errors"

// Keycode errors.
var (
	// ErrUnknownKeycode indicates a wire value, text form or key name that
	// does not correspond to any firmware keycode.
	ErrUnknownKeycode = errors.New("unknown keycode")

	// ErrNotBasic indicates a key that cannot be combined with modifiers or
	// used as the tap action of a ModTap or LayerTap binding.
	ErrNotBasic = errors.New("not a basic key")

	// ErrEmptyMods indicates a ModTap binding with no modifiers.
	ErrEmptyMods = errors.New("mod-tap requires at least one modifier")

	// ErrMixedSides indicates a modifier set with both left and right keys,
	// which the firmware cannot represent.
	ErrMixedSides = errors.New("cannot mix left and right modifiers")

	// ErrInvalidLayer indicates a layer index outside the firmware's layers.
	ErrInvalidLayer = errors.New("invalid layer")
)
