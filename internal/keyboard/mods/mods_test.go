package mods

import (
	"errors"
	"testing"
)

func TestModsContains(t *testing.T) {
	tests := []struct {
		mods   Mods
		check  Mods
		expect bool
	}{
		{None, None, true},
		{None, LeftCtrl, false},
		{LeftCtrl, LeftCtrl, true},
		{LeftCtrl | LeftShift, LeftCtrl, true},
		{LeftCtrl | LeftShift, LeftCtrl | LeftShift, true},
		{LeftCtrl, LeftCtrl | LeftShift, false},
		{RightCtrl, LeftCtrl, false},
	}

	for _, tt := range tests {
		if got := tt.mods.Contains(tt.check); got != tt.expect {
			t.Errorf("Mods(%q).Contains(%q) = %v, want %v", tt.mods, tt.check, got, tt.expect)
		}
	}
}

func TestModsEmptyIsDistinct(t *testing.T) {
	if !None.IsEmpty() {
		t.Error("None should be empty")
	}
	for _, m := range All() {
		if m.IsEmpty() {
			t.Errorf("%q should not be empty", m)
		}
		if m == None {
			t.Errorf("%q should differ from None", m)
		}
	}
}

func TestModsToggleSelfInverse(t *testing.T) {
	// Every set against every single modifier.
	for set := 0; set <= 0xff; set++ {
		m := Mods(set)
		for _, bit := range All() {
			if got := m.Toggle(bit).Toggle(bit); got != m {
				t.Fatalf("Toggle twice of %#x with %q = %#x, want %#x", set, bit, got, set)
			}
		}
	}
}

func TestModsToggle(t *testing.T) {
	m := LeftCtrl
	m = m.Toggle(LeftShift)
	if !m.Contains(LeftCtrl | LeftShift) {
		t.Errorf("Toggle should add LEFT_SHIFT, got %q", m)
	}
	m = m.Toggle(LeftCtrl)
	if m != LeftShift {
		t.Errorf("Toggle should remove LEFT_CTRL, got %q", m)
	}
}

func TestModsSides(t *testing.T) {
	tests := []struct {
		mods  Mods
		right bool
		mixed bool
	}{
		{None, false, false},
		{LeftShift, false, false},
		{LeftShift | LeftAlt, false, false},
		{RightShift, true, false},
		{RightSuper | RightAlt, true, false},
		{LeftCtrl | RightCtrl, true, true},
	}

	for _, tt := range tests {
		if got := tt.mods.HasRightSide(); got != tt.right {
			t.Errorf("Mods(%q).HasRightSide() = %v, want %v", tt.mods, got, tt.right)
		}
		if got := tt.mods.MixedSides(); got != tt.mixed {
			t.Errorf("Mods(%q).MixedSides() = %v, want %v", tt.mods, got, tt.mixed)
		}
	}
}

func TestModsIsSingle(t *testing.T) {
	if None.IsSingle() {
		t.Error("None should not be single")
	}
	if (LeftCtrl | LeftAlt).IsSingle() {
		t.Error("two modifiers should not be single")
	}
	for _, m := range All() {
		if !m.IsSingle() {
			t.Errorf("%q should be single", m)
		}
	}
}

func TestParse(t *testing.T) {
	names := []string{
		"LEFT_SHIFT", "LEFT_CTRL", "LEFT_SUPER", "LEFT_ALT",
		"RIGHT_SHIFT", "RIGHT_CTRL", "RIGHT_SUPER", "RIGHT_ALT",
	}
	seen := None
	for i, name := range names {
		m, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", name, err)
		}
		if m != All()[i] {
			t.Errorf("Parse(%q) = %#x, want %#x", name, m, All()[i])
		}
		if m.String() != name {
			t.Errorf("Parse(%q).String() = %q", name, m.String())
		}
		seen = seen.Union(m)
	}
	if seen != Mods(0xff) {
		t.Errorf("parsed modifiers cover %#x, want 0xff", seen)
	}
}

func TestParseUnknown(t *testing.T) {
	for _, name := range []string{"", "SHIFT", "left_shift", "CTRL", "LEFT_META"} {
		if _, err := Parse(name); !errors.Is(err, ErrUnknownModifier) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknownModifier", name, err)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  Mods
	}{
		{"", None},
		{"LEFT_CTRL", LeftCtrl},
		{"LEFT_CTRL|LEFT_SHIFT", LeftCtrl | LeftShift},
		{"RIGHT_ALT | RIGHT_SUPER", RightAlt | RightSuper},
	}

	for _, tt := range tests {
		got, err := ParseList(tt.input)
		if err != nil {
			t.Errorf("ParseList(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseList(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := ParseList("LEFT_CTRL|HYPER"); !errors.Is(err, ErrUnknownModifier) {
		t.Errorf("ParseList with unknown name error = %v, want ErrUnknownModifier", err)
	}
}

func TestModsString(t *testing.T) {
	tests := []struct {
		mods Mods
		want string
	}{
		{None, ""},
		{LeftShift | LeftCtrl, "LEFT_SHIFT|LEFT_CTRL"},
		{RightAlt | RightShift, "RIGHT_SHIFT|RIGHT_ALT"},
	}

	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.want {
			t.Errorf("Mods(%#x).String() = %q, want %q", uint8(tt.mods), got, tt.want)
		}
	}
}
