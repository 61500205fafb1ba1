package keycode

import (
	"fmt"

	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// Kind identifies the variant of a Keycode.
type Kind uint8

const (
	// KindBasic is an ordinary key with optional held modifiers.
	KindBasic Kind = iota
	// KindModTap holds modifiers and taps a key.
	KindModTap
	// KindLayerTap holds a layer and taps a key.
	KindLayerTap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindModTap:
		return "mod-tap"
	case KindLayerTap:
		return "layer-tap"
	default:
		return "unknown"
	}
}

// Layer is a firmware layer index.
type Layer uint8

// NumLayers is the number of layers a LayerTap binding can select.
const NumLayers = 4

// layerNames are the layer options, indexed by Layer.
var layerNames = [NumLayers]string{"LAYER_ACCESS_1", "FN", "LAYER_ACCESS_3", "LAYER_ACCESS_4"}

// Valid returns true if l is one of the firmware layers.
func (l Layer) Valid() bool {
	return int(l) < NumLayers
}

// Name returns the layer option name, e.g. "FN" for layer 1.
func (l Layer) Name() string {
	if !l.Valid() {
		return fmt.Sprintf("LAYER(%d)", uint8(l))
	}
	return layerNames[l]
}

// Layers returns all layer indexes in order.
func Layers() []Layer {
	out := make([]Layer, NumLayers)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}

// Keycode is a firmware key binding.
// The zero value is Basic(mods.None, "").
type Keycode struct {
	kind  Kind
	mods  mods.Mods
	layer Layer
	key   string
}

// Basic returns an ordinary key binding with optional held modifiers.
func Basic(m mods.Mods, key string) Keycode {
	return Keycode{kind: KindBasic, mods: m, key: key}
}

// ModTap returns a binding that holds m and taps key.
func ModTap(m mods.Mods, key string) Keycode {
	return Keycode{kind: KindModTap, mods: m, key: key}
}

// LayerTap returns a binding that holds layer and taps key.
func LayerTap(layer Layer, key string) Keycode {
	return Keycode{kind: KindLayerTap, layer: layer, key: key}
}

// Kind returns the variant of k.
func (k Keycode) Kind() Kind {
	return k.kind
}

// Mods returns the modifiers of a Basic or ModTap binding.
func (k Keycode) Mods() mods.Mods {
	return k.mods
}

// Layer returns the layer of a LayerTap binding.
func (k Keycode) Layer() Layer {
	return k.layer
}

// Key returns the key name. For ModTap and LayerTap it is the tap action.
func (k Keycode) Key() string {
	return k.key
}

// String returns the text form of k. See Parse.
func (k Keycode) String() string {
	switch k.kind {
	case KindModTap:
		return fmt.Sprintf("MT(%s, %s)", k.mods, k.key)
	case KindLayerTap:
		return fmt.Sprintf("LT(%d, %s)", k.layer, k.key)
	default:
		if k.mods.IsEmpty() {
			return k.key
		}
		return k.mods.String() + "|" + k.key
	}
}
