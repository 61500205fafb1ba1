package mods

import (
	"fmt"
	"math/bits"
	"strings"
)

// Mods is a set of modifier keys.
type Mods uint8

// None is the empty set.
const None Mods = 0

const (
	// LeftShift is the left Shift key.
	LeftShift Mods = 1 << iota
	// LeftCtrl is the left Control key.
	LeftCtrl
	// LeftSuper is the left Super (Windows/Command) key.
	LeftSuper
	// LeftAlt is the left Alt key.
	LeftAlt
	// RightShift is the right Shift key.
	RightShift
	// RightCtrl is the right Control key.
	RightCtrl
	// RightSuper is the right Super key.
	RightSuper
	// RightAlt is the right Alt key.
	RightAlt
)

const (
	leftMask  = LeftShift | LeftCtrl | LeftSuper | LeftAlt
	rightMask = RightShift | RightCtrl | RightSuper | RightAlt
)

// option pairs a single-bit value with its canonical name.
type option struct {
	mod  Mods
	name string
}

// options is the canonical modifier order. It is never mutated.
var options = [...]option{
	{LeftShift, "LEFT_SHIFT"},
	{LeftCtrl, "LEFT_CTRL"},
	{LeftSuper, "LEFT_SUPER"},
	{LeftAlt, "LEFT_ALT"},
	{RightShift, "RIGHT_SHIFT"},
	{RightCtrl, "RIGHT_CTRL"},
	{RightSuper, "RIGHT_SUPER"},
	{RightAlt, "RIGHT_ALT"},
}

// All returns the eight single-bit modifiers in canonical order.
func All() []Mods {
	out := make([]Mods, len(options))
	for i, o := range options {
		out[i] = o.mod
	}
	return out
}

// Parse returns the single-bit Mods for a canonical modifier name.
func Parse(name string) (Mods, error) {
	for _, o := range options {
		if o.name == name {
			return o.mod, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
}

// ParseList parses a "|"-separated list such as "LEFT_CTRL|LEFT_SHIFT".
// An empty string yields None.
func ParseList(s string) (Mods, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, nil
	}

	var result Mods
	for _, part := range strings.Split(s, "|") {
		m, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return None, err
		}
		result = result.Union(m)
	}
	return result, nil
}

// Contains returns true if every bit in other is set in m.
func (m Mods) Contains(other Mods) bool {
	return m&other == other
}

// Union returns the set of modifiers in either m or other.
func (m Mods) Union(other Mods) Mods {
	return m | other
}

// IsEmpty returns true if no modifiers are set.
func (m Mods) IsEmpty() bool {
	return m == None
}

// IsSingle returns true if exactly one modifier is set.
func (m Mods) IsSingle() bool {
	return bits.OnesCount8(uint8(m)) == 1
}

// Toggle clears mod if it is set and sets it otherwise.
// mod is expected to be a single modifier.
func (m Mods) Toggle(mod Mods) Mods {
	return m ^ mod
}

// HasRightSide returns true if any right-hand modifier is set.
func (m Mods) HasRightSide() bool {
	return m&rightMask != 0
}

// HasLeftSide returns true if any left-hand modifier is set.
func (m Mods) HasLeftSide() bool {
	return m&leftMask != 0
}

// MixedSides returns true if both left- and right-hand modifiers are set.
func (m Mods) MixedSides() bool {
	return m.HasLeftSide() && m.HasRightSide()
}

// Bits returns the single-bit modifiers in m in canonical order.
func (m Mods) Bits() []Mods {
	var out []Mods
	for _, o := range options {
		if m.Contains(o.mod) {
			out = append(out, o.mod)
		}
	}
	return out
}

// Names returns the canonical names of the modifiers in m.
func (m Mods) Names() []string {
	var out []string
	for _, o := range options {
		if m.Contains(o.mod) {
			out = append(out, o.name)
		}
	}
	return out
}

// String returns a representation like "LEFT_CTRL|LEFT_SHIFT".
// The empty set is "".
func (m Mods) String() string {
	return strings.Join(m.Names(), "|")
}
