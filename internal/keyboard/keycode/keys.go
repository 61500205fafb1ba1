package keycode

import "fmt"

// Key describes one firmware key.
type Key struct {
	// Name is the firmware identifier, e.g. "A", "ENTER", "LEFT_CTRL".
	Name string

	// Code is the 16-bit firmware keycode.
	Code uint16

	// Basic reports whether the key may carry modifiers or be the tap
	// action of a ModTap/LayerTap binding.
	Basic bool
}

// Firmware keycode ranges used for non-basic keys.
const (
	qkMomentary   uint16 = 0x5220
	qkToggleLayer uint16 = 0x5260
	qkBoot        uint16 = 0x7c00
	qkKeyboard    uint16 = 0x7e00
)

// keyTable lists every key the firmware knows about. It is never mutated.
var keyTable = buildKeyTable()

var (
	keysByName = indexByName(keyTable)
	keysByCode = indexByCode(keyTable)
)

func buildKeyTable() []Key {
	keys := []Key{
		{"NONE", 0x00, true},
		{"ROLL_OVER", 0x01, true},
	}

	// Letters 0x04-0x1D.
	for i := 0; i < 26; i++ {
		keys = append(keys, Key{string(rune('A' + i)), uint16(0x04 + i), true})
	}

	// Digits 1-9 then 0, 0x1E-0x27.
	for i, d := range "1234567890" {
		keys = append(keys, Key{string(d), uint16(0x1e + i), true})
	}

	keys = append(keys,
		Key{"ENTER", 0x28, true},
		Key{"ESCAPE", 0x29, true},
		Key{"BKSP", 0x2a, true},
		Key{"TAB", 0x2b, true},
		Key{"SPACE", 0x2c, true},
		Key{"MINUS", 0x2d, true},
		Key{"EQUALS", 0x2e, true},
		Key{"BRACE_OPEN", 0x2f, true},
		Key{"BRACE_CLOSE", 0x30, true},
		Key{"BACKSLASH", 0x31, true},
		Key{"NONUS_HASH", 0x32, true},
		Key{"SEMICOLON", 0x33, true},
		Key{"QUOTE", 0x34, true},
		Key{"TICK", 0x35, true},
		Key{"COMMA", 0x36, true},
		Key{"PERIOD", 0x37, true},
		Key{"SLASH", 0x38, true},
		Key{"CAPS", 0x39, true},
	)

	// F1-F12 0x3A-0x45.
	for i := 0; i < 12; i++ {
		keys = append(keys, Key{fmt.Sprintf("F%d", i+1), uint16(0x3a + i), true})
	}

	keys = append(keys,
		Key{"PRINT_SCREEN", 0x46, true},
		Key{"SCROLL_LOCK", 0x47, true},
		Key{"PAUSE", 0x48, true},
		Key{"INSERT", 0x49, true},
		Key{"HOME", 0x4a, true},
		Key{"PGUP", 0x4b, true},
		Key{"DEL", 0x4c, true},
		Key{"END", 0x4d, true},
		Key{"PGDN", 0x4e, true},
		Key{"RIGHT", 0x4f, true},
		Key{"LEFT", 0x50, true},
		Key{"DOWN", 0x51, true},
		Key{"UP", 0x52, true},
		Key{"NUM_LOCK", 0x53, true},
		Key{"NUM_SLASH", 0x54, true},
		Key{"NUM_ASTERISK", 0x55, true},
		Key{"NUM_MINUS", 0x56, true},
		Key{"NUM_PLUS", 0x57, true},
		Key{"NUM_ENTER", 0x58, true},
	)

	// Keypad 1-9 then 0, 0x59-0x62.
	for i, d := range "1234567890" {
		keys = append(keys, Key{"NUM_" + string(d), uint16(0x59 + i), true})
	}

	keys = append(keys,
		Key{"NUM_PERIOD", 0x63, true},
		Key{"NONUS_BSLASH", 0x64, true},
		Key{"APP", 0x65, true},
	)

	// F13-F24 0x68-0x73.
	for i := 0; i < 12; i++ {
		keys = append(keys, Key{fmt.Sprintf("F%d", i+13), uint16(0x68 + i), true})
	}

	keys = append(keys,
		// Modifier keys as plain keys.
		Key{"LEFT_CTRL", 0xe0, true},
		Key{"LEFT_SHIFT", 0xe1, true},
		Key{"LEFT_ALT", 0xe2, true},
		Key{"LEFT_SUPER", 0xe3, true},
		Key{"RIGHT_CTRL", 0xe4, true},
		Key{"RIGHT_SHIFT", 0xe5, true},
		Key{"RIGHT_ALT", 0xe6, true},
		Key{"RIGHT_SUPER", 0xe7, true},

		// System and consumer keys live in the low byte but cannot be
		// mod-tapped.
		Key{"SYSTEM_POWER", 0xa5, false},
		Key{"MUTE", 0xa8, false},
		Key{"VOLUME_UP", 0xa9, false},
		Key{"VOLUME_DOWN", 0xaa, false},
		Key{"MEDIA_NEXT", 0xab, false},
		Key{"MEDIA_PREV", 0xac, false},
		Key{"MEDIA_STOP", 0xad, false},
		Key{"PLAY_PAUSE", 0xae, false},
		Key{"DISPLAY_BRIGHTNESS_UP", 0xbd, false},
		Key{"DISPLAY_BRIGHTNESS_DOWN", 0xbe, false},

		Key{"RESET", qkBoot, false},

		// Vendor keyboard backlight keys.
		Key{"KBD_BKL", qkKeyboard + 0, false},
		Key{"KBD_COLOR", qkKeyboard + 1, false},
		Key{"KBD_DOWN", qkKeyboard + 2, false},
		Key{"KBD_UP", qkKeyboard + 3, false},
		Key{"KBD_TOGGLE", qkKeyboard + 4, false},
	)

	// Momentary layer keys, one per layer option.
	for i, name := range layerNames {
		keys = append(keys, Key{name, qkMomentary + uint16(i), false})
	}
	for i := range layerNames {
		keys = append(keys, Key{fmt.Sprintf("LAYER_TOGGLE_%d", i+1), qkToggleLayer + uint16(i), false})
	}

	return keys
}

func indexByName(keys []Key) map[string]Key {
	m := make(map[string]Key, len(keys))
	for _, k := range keys {
		m[k.Name] = k
	}
	return m
}

func indexByCode(keys []Key) map[uint16]Key {
	m := make(map[uint16]Key, len(keys))
	for _, k := range keys {
		m[k.Code] = k
	}
	return m
}

// Lookup returns the key with the given firmware name.
func Lookup(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// LookupCode returns the key with the given firmware keycode.
func LookupCode(code uint16) (Key, bool) {
	k, ok := keysByCode[code]
	return k, ok
}

// IsBasic returns true if name is a known basic key.
func IsBasic(name string) bool {
	k, ok := keysByName[name]
	return ok && k.Basic
}

// Keys returns every known key in table order.
func Keys() []Key {
	out := make([]Key, len(keyTable))
	copy(out, keyTable)
	return out
}

// BasicNames returns the names of all basic keys in table order.
func BasicNames() []string {
	var out []string
	for _, k := range keyTable {
		if k.Basic {
			out = append(out, k.Name)
		}
	}
	return out
}
