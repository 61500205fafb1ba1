package taphold

import (
	"fmt"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// HoldKind identifies the variant of a Hold.
type HoldKind uint8

const (
	// HoldMods holds a modifier combination.
	HoldMods HoldKind = iota
	// HoldLayer holds a layer.
	HoldLayer
)

// Hold is the action performed while the key is held.
// The zero value is Mods(None).
type Hold struct {
	kind  HoldKind
	mods  mods.Mods
	layer keycode.Layer
}

// ModsHold returns a hold of the modifiers m.
func ModsHold(m mods.Mods) Hold {
	return Hold{kind: HoldMods, mods: m}
}

// LayerHold returns a hold of layer l.
func LayerHold(l keycode.Layer) Hold {
	return Hold{kind: HoldLayer, layer: l}
}

// Kind returns the variant of h.
func (h Hold) Kind() HoldKind {
	return h.kind
}

// Mods returns the held modifiers and whether h is a modifier hold.
func (h Hold) Mods() (mods.Mods, bool) {
	return h.mods, h.kind == HoldMods
}

// Layer returns the held layer and whether h is a layer hold.
func (h Hold) Layer() (keycode.Layer, bool) {
	return h.layer, h.kind == HoldLayer
}

// IsEmpty returns true for Mods(None).
func (h Hold) IsEmpty() bool {
	return h.kind == HoldMods && h.mods.IsEmpty()
}

// String returns "Mods(LEFT_CTRL)" or "Layer(1)".
func (h Hold) String() string {
	if h.kind == HoldLayer {
		return fmt.Sprintf("Layer(%d)", h.layer)
	}
	return fmt.Sprintf("Mods(%s)", h.mods)
}

// State is the externally meaningful editor state.
type State uint8

const (
	// StateEmpty has no hold action and no tap key.
	StateEmpty State = iota
	// StateHoldOnly has only one of the two choices.
	StateHoldOnly
	// StateComplete has both and emits a keycode.
	StateComplete
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHoldOnly:
		return "hold-only"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}
