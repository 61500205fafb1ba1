package keycode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// Parse parses the text form of a keycode.
//
// Supported formats:
//   - Plain key: "A", "ENTER", "FN"
//   - Key with modifiers: "LEFT_CTRL|C", "LEFT_CTRL|LEFT_SHIFT|T"
//   - Mod-tap: "MT(LEFT_CTRL, ESCAPE)", "MT(RIGHT_ALT|RIGHT_SHIFT, A)"
//   - Layer-tap: "LT(1, SPACE)"
//
// Key names are checked against the key table; the result is not checked
// for encodability. Use Encode for that.
func Parse(s string) (Keycode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Keycode{}, fmt.Errorf("%w: empty", ErrUnknownKeycode)
	}

	if inner, ok := call(s, "MT"); ok {
		modPart, keyPart, err := splitArgs(s, inner)
		if err != nil {
			return Keycode{}, err
		}
		m, err := mods.ParseList(modPart)
		if err != nil {
			return Keycode{}, err
		}
		key, err := knownKey(keyPart)
		if err != nil {
			return Keycode{}, err
		}
		return ModTap(m, key), nil
	}

	if inner, ok := call(s, "LT"); ok {
		layerPart, keyPart, err := splitArgs(s, inner)
		if err != nil {
			return Keycode{}, err
		}
		n, err := strconv.ParseUint(layerPart, 10, 8)
		if err != nil {
			return Keycode{}, fmt.Errorf("%w: layer %q in %q", ErrUnknownKeycode, layerPart, s)
		}
		key, err := knownKey(keyPart)
		if err != nil {
			return Keycode{}, err
		}
		return LayerTap(Layer(n), key), nil
	}

	parts := strings.Split(s, "|")
	key, err := knownKey(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Keycode{}, err
	}
	m, err := mods.ParseList(strings.Join(parts[:len(parts)-1], "|"))
	if err != nil {
		return Keycode{}, err
	}
	return Basic(m, key), nil
}

// call returns the argument text of "NAME(...)".
func call(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(name)+1 : len(s)-1], true
}

// splitArgs splits "a, b" into its two trimmed halves.
func splitArgs(s, inner string) (string, string, error) {
	a, b, ok := strings.Cut(inner, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: expected two arguments in %q", ErrUnknownKeycode, s)
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}

func knownKey(name string) (string, error) {
	if _, ok := Lookup(name); !ok {
		return "", fmt.Errorf("%w: key %q", ErrUnknownKeycode, name)
	}
	return name, nil
}
