// Package mods provides the modifier set used by firmware key bindings.
//
// A Mods value is a set over the eight physical modifier keys:
//
//   - LEFT_SHIFT, LEFT_CTRL, LEFT_SUPER, LEFT_ALT
//   - RIGHT_SHIFT, RIGHT_CTRL, RIGHT_SUPER, RIGHT_ALT
//
// The zero value is the empty set. Left and right variants are distinct bits,
// but the firmware only carries a single side flag per binding, so callers use
// HasRightSide and MixedSides to keep one binding on one side of the keyboard.
//
// # Names
//
// The canonical names above are the only accepted spellings. Parse fails with
// ErrUnknownModifier for anything else; the list is closed and known at
// compile time, so a failure indicates a caller defect rather than bad input.
package mods
