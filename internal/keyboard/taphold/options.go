package taphold

import (
	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// ModifierOption describes one selectable modifier.
type ModifierOption struct {
	Name     string    `json:"name" yaml:"name"`
	Mod      mods.Mods `json:"-" yaml:"-"`
	Selected bool      `json:"selected" yaml:"selected"`
	Enabled  bool      `json:"enabled" yaml:"enabled"`
}

// LayerOption describes one selectable layer.
type LayerOption struct {
	Index    keycode.Layer `json:"index" yaml:"index"`
	Name     string        `json:"name" yaml:"name"`
	Selected bool          `json:"selected" yaml:"selected"`
	Enabled  bool          `json:"enabled" yaml:"enabled"`
}

// Options is a point-in-time view of the editor for presentation.
type Options struct {
	State      string           `json:"state" yaml:"state"`
	Hold       string           `json:"hold" yaml:"hold"`
	Tap        string           `json:"tap,omitempty" yaml:"tap,omitempty"`
	Keycode    string           `json:"keycode,omitempty" yaml:"keycode,omitempty"`
	Shift      bool             `json:"shift" yaml:"shift"`
	TapEnabled bool             `json:"tapEnabled" yaml:"tapEnabled"`
	Modifiers  []ModifierOption `json:"modifiers" yaml:"modifiers"`
	Layers     []LayerOption    `json:"layers" yaml:"layers"`
}

// Options returns the current selection and option sensitivity.
func (e *Editor) Options() Options {
	opts := Options{
		State:      e.State().String(),
		Hold:       e.hold.String(),
		Tap:        e.tap,
		Shift:      e.shift,
		TapEnabled: e.sens.tap,
	}
	if k, ok := e.Keycode(); ok {
		opts.Keycode = k.String()
	}

	held, isMods := e.hold.Mods()
	for i, m := range mods.All() {
		opts.Modifiers = append(opts.Modifiers, ModifierOption{
			Name:     m.String(),
			Mod:      m,
			Selected: isMods && held.Contains(m),
			Enabled:  e.sens.mods[i],
		})
	}

	layer, isLayer := e.hold.Layer()
	for _, l := range keycode.Layers() {
		opts.Layers = append(opts.Layers, LayerOption{
			Index:    l,
			Name:     l.Name(),
			Selected: isLayer && layer == l,
			Enabled:  e.sens.layers[l],
		})
	}

	return opts
}

// TapKeys returns the names offered by the tap picker in key table order.
func TapKeys() []string {
	return keycode.BasicNames()
}
