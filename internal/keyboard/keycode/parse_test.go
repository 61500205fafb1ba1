package keycode

import (
	"errors"
	"testing"

	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Keycode
	}{
		{"A", Basic(mods.None, "A")},
		{" ENTER ", Basic(mods.None, "ENTER")},
		{"FN", Basic(mods.None, "FN")},
		{"LEFT_SHIFT", Basic(mods.None, "LEFT_SHIFT")},
		{"LEFT_CTRL|C", Basic(mods.LeftCtrl, "C")},
		{"LEFT_CTRL|LEFT_SHIFT|T", Basic(mods.LeftCtrl|mods.LeftShift, "T")},
		{"MT(LEFT_CTRL, ESCAPE)", ModTap(mods.LeftCtrl, "ESCAPE")},
		{"MT(RIGHT_ALT|RIGHT_SHIFT, A)", ModTap(mods.RightAlt|mods.RightShift, "A")},
		{"MT(LEFT_CTRL,ESCAPE)", ModTap(mods.LeftCtrl, "ESCAPE")},
		{"LT(1, SPACE)", LayerTap(1, "SPACE")},
		{"LT(3,A)", LayerTap(3, "A")},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrUnknownKeycode},
		{"NOT_A_KEY", ErrUnknownKeycode},
		{"MT(LEFT_CTRL)", ErrUnknownKeycode},
		{"MT(LEFT_CTRL, NOPE)", ErrUnknownKeycode},
		{"MT(HYPER, A)", mods.ErrUnknownModifier},
		{"LT(x, A)", ErrUnknownKeycode},
		{"HYPER|A", mods.ErrUnknownModifier},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.input); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
		}
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	keycodes := []Keycode{
		Basic(mods.None, "A"),
		Basic(mods.LeftCtrl|mods.LeftAlt, "DEL"),
		ModTap(mods.LeftCtrl, "ESCAPE"),
		ModTap(mods.RightShift|mods.RightSuper, "SLASH"),
		LayerTap(0, "Z"),
		LayerTap(2, "A"),
	}

	for _, want := range keycodes {
		got, err := Parse(want.String())
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", want.String(), err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", want.String(), got, want)
		}
	}
}

func TestKeycodeString(t *testing.T) {
	tests := []struct {
		keycode Keycode
		want    string
	}{
		{Basic(mods.None, "A"), "A"},
		{Basic(mods.LeftCtrl, "C"), "LEFT_CTRL|C"},
		{ModTap(mods.LeftShift|mods.LeftCtrl, "A"), "MT(LEFT_SHIFT|LEFT_CTRL, A)"},
		{LayerTap(2, "A"), "LT(2, A)"},
	}

	for _, tt := range tests {
		if got := tt.keycode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeycodeEquality(t *testing.T) {
	if ModTap(mods.LeftCtrl, "A") != ModTap(mods.LeftCtrl, "A") {
		t.Error("equal mod-taps should compare equal")
	}
	if ModTap(mods.LeftCtrl, "A") == Basic(mods.LeftCtrl, "A") {
		t.Error("mod-tap and basic with same fields should differ")
	}
	if LayerTap(1, "A") == LayerTap(2, "A") {
		t.Error("layer-taps on different layers should differ")
	}
}
