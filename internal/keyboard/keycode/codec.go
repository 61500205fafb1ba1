package keycode

import (
	"fmt"

	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// Firmware modifier field bits.
const (
	qmkCtrl  uint16 = 0x01
	qmkShift uint16 = 0x02
	qmkAlt   uint16 = 0x04
	qmkGUI   uint16 = 0x08
	qmkRight uint16 = 0x10
	qmkKinds        = qmkCtrl | qmkShift | qmkAlt | qmkGUI
)

// Firmware keycode ranges.
const (
	qkBasicMax    uint16 = 0x00ff
	qkModsMax     uint16 = 0x1fff
	qkModTap      uint16 = 0x2000
	qkModTapMax   uint16 = 0x3fff
	qkLayerTap    uint16 = 0x4000
	qkLayerTapMax uint16 = 0x4fff
)

// sideBits maps one side's modifiers to firmware kind bits.
var sideBits = [2][4]struct {
	mod mods.Mods
	bit uint16
}{
	{{mods.LeftCtrl, qmkCtrl}, {mods.LeftShift, qmkShift}, {mods.LeftAlt, qmkAlt}, {mods.LeftSuper, qmkGUI}},
	{{mods.RightCtrl, qmkCtrl}, {mods.RightShift, qmkShift}, {mods.RightAlt, qmkAlt}, {mods.RightSuper, qmkGUI}},
}

// encodeMods converts a modifier set to the five-bit firmware field.
func encodeMods(m mods.Mods) (uint16, error) {
	if m.MixedSides() {
		return 0, fmt.Errorf("%w: %s", ErrMixedSides, m)
	}

	side := 0
	var field uint16
	if m.HasRightSide() {
		side = 1
		field = qmkRight
	}
	for _, sb := range sideBits[side] {
		if m.Contains(sb.mod) {
			field |= sb.bit
		}
	}
	return field, nil
}

// decodeMods converts a five-bit firmware field to a modifier set.
// A field with no modifier kinds set decodes to mods.None.
func decodeMods(field uint16) mods.Mods {
	side := 0
	if field&qmkRight != 0 {
		side = 1
	}
	m := mods.None
	for _, sb := range sideBits[side] {
		if field&sb.bit != 0 {
			m = m.Union(sb.mod)
		}
	}
	return m
}

// basicCode returns the code of a key that may carry modifiers.
func basicCode(name string) (uint16, error) {
	k, ok := Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: key %q", ErrUnknownKeycode, name)
	}
	if !k.Basic {
		return 0, fmt.Errorf("%w: %q", ErrNotBasic, name)
	}
	return k.Code, nil
}

// Encode returns the firmware keycode for k.
func Encode(k Keycode) (uint16, error) {
	switch k.kind {
	case KindBasic:
		if k.mods.IsEmpty() {
			key, ok := Lookup(k.key)
			if !ok {
				return 0, fmt.Errorf("%w: key %q", ErrUnknownKeycode, k.key)
			}
			return key.Code, nil
		}
		field, err := encodeMods(k.mods)
		if err != nil {
			return 0, err
		}
		code, err := basicCode(k.key)
		if err != nil {
			return 0, err
		}
		return field<<8 | code, nil

	case KindModTap:
		if k.mods.IsEmpty() {
			return 0, ErrEmptyMods
		}
		field, err := encodeMods(k.mods)
		if err != nil {
			return 0, err
		}
		code, err := basicCode(k.key)
		if err != nil {
			return 0, err
		}
		return qkModTap | field<<8 | code, nil

	case KindLayerTap:
		if !k.layer.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidLayer, k.layer)
		}
		code, err := basicCode(k.key)
		if err != nil {
			return 0, err
		}
		return qkLayerTap | uint16(k.layer)<<8 | code, nil

	default:
		return 0, fmt.Errorf("%w: kind %d", ErrUnknownKeycode, k.kind)
	}
}

// Decode returns the Keycode for a firmware keycode.
func Decode(v uint16) (Keycode, error) {
	switch {
	case v <= qkBasicMax:
		k, ok := LookupCode(v)
		if !ok {
			return Keycode{}, unknownWire(v)
		}
		return Basic(mods.None, k.Name), nil

	case v <= qkModsMax:
		field := v >> 8
		if field&qmkKinds == 0 {
			return Keycode{}, unknownWire(v)
		}
		name, ok := basicName(v & 0xff)
		if !ok {
			return Keycode{}, unknownWire(v)
		}
		return Basic(decodeMods(field), name), nil

	case v >= qkModTap && v <= qkModTapMax:
		field := (v >> 8) & 0x1f
		if field&qmkKinds == 0 {
			return Keycode{}, unknownWire(v)
		}
		name, ok := basicName(v & 0xff)
		if !ok {
			return Keycode{}, unknownWire(v)
		}
		return ModTap(decodeMods(field), name), nil

	case v >= qkLayerTap && v <= qkLayerTapMax:
		layer := Layer((v >> 8) & 0x0f)
		if !layer.Valid() {
			return Keycode{}, unknownWire(v)
		}
		name, ok := basicName(v & 0xff)
		if !ok {
			return Keycode{}, unknownWire(v)
		}
		return LayerTap(layer, name), nil

	default:
		k, ok := LookupCode(v)
		if !ok {
			return Keycode{}, unknownWire(v)
		}
		return Basic(mods.None, k.Name), nil
	}
}

func basicName(code uint16) (string, bool) {
	k, ok := LookupCode(code)
	if !ok || !k.Basic {
		return "", false
	}
	return k.Name, true
}

func unknownWire(v uint16) error {
	return fmt.Errorf("%w: 0x%04x", ErrUnknownKeycode, v)
}
