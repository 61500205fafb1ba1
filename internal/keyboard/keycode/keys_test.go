package keycode

import "testing"

func TestKeyTableUnique(t *testing.T) {
	names := make(map[string]bool)
	codes := make(map[uint16]string)
	for _, k := range Keys() {
		if names[k.Name] {
			t.Errorf("duplicate key name %q", k.Name)
		}
		names[k.Name] = true
		if prev, ok := codes[k.Code]; ok {
			t.Errorf("keys %q and %q share code 0x%04x", prev, k.Name, k.Code)
		}
		codes[k.Code] = k.Name
	}
}

func TestBasicKeysFitLowByte(t *testing.T) {
	for _, k := range Keys() {
		if k.Basic && k.Code > 0xff {
			t.Errorf("basic key %q has code 0x%04x outside the low byte", k.Name, k.Code)
		}
	}
}

func TestIsBasic(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"A", true},
		{"ESCAPE", true},
		{"F24", true},
		{"NUM_0", true},
		{"LEFT_SUPER", true},
		{"MUTE", false},
		{"FN", false},
		{"KBD_TOGGLE", false},
		{"NOT_A_KEY", false},
	}

	for _, tt := range tests {
		if got := IsBasic(tt.name); got != tt.want {
			t.Errorf("IsBasic(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLayers(t *testing.T) {
	want := []string{"LAYER_ACCESS_1", "FN", "LAYER_ACCESS_3", "LAYER_ACCESS_4"}
	layers := Layers()
	if len(layers) != len(want) {
		t.Fatalf("len(Layers()) = %d, want %d", len(layers), len(want))
	}
	for i, l := range layers {
		if l.Name() != want[i] {
			t.Errorf("Layer(%d).Name() = %q, want %q", i, l.Name(), want[i])
		}
		if _, ok := Lookup(want[i]); !ok {
			t.Errorf("layer key %q missing from key table", want[i])
		}
	}
	if Layer(NumLayers).Valid() {
		t.Error("Layer(NumLayers) should be invalid")
	}
}
