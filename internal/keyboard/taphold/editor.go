package taphold

import (
	"fmt"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

// Listener is called with the derived keycode each time the editor reaches
// or remains in the Complete state after a transition.
type Listener func(k keycode.Keycode)

// Subscription represents an active listener registration.
type Subscription struct {
	id     uint64
	editor *Editor
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.editor != nil {
		s.editor.unsubscribe(s.id)
		s.editor = nil
	}
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// sensitivity is the derived enablement of every selectable option.
type sensitivity struct {
	mods   [8]bool
	layers [keycode.NumLayers]bool
	tap    bool
}

// Editor is the in-progress tap-hold selection for one key binding.
type Editor struct {
	hold   Hold
	tap    string
	hasTap bool
	shift  bool

	sens sensitivity

	listeners []listenerEntry
	nextID    uint64
}

// New creates an editor in the Empty state with the shift context off.
func New() *Editor {
	e := &Editor{}
	e.deriveSensitivity()
	return e
}

// OnSelect registers fn to receive derived keycodes. Listeners are called
// synchronously in registration order.
func (e *Editor) OnSelect(fn Listener) *Subscription {
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: e.nextID, fn: fn})
	return &Subscription{id: e.nextID, editor: e}
}

func (e *Editor) unsubscribe(id uint64) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// ChooseTap sets the tap key. Only basic keys fit in the tap byte of a
// tap-hold keycode.
func (e *Editor) ChooseTap(key string) error {
	if !keycode.IsBasic(key) {
		return fmt.Errorf("%w: %q", keycode.ErrNotBasic, key)
	}
	e.tap = key
	e.hasTap = true
	e.update()
	return nil
}

// ToggleModifier applies a click on the modifier option m. With combine set
// and a modifier hold in place, m is toggled within the existing combination;
// otherwise the hold becomes exactly m.
//
// A combination that would mix left and right modifiers has no firmware
// encoding and is rejected with keycode.ErrMixedSides, leaving the editor
// unchanged. This is the only click ToggleModifier refuses: every other
// combine toggles m unconditionally.
func (e *Editor) ToggleModifier(m mods.Mods, combine bool) error {
	if !m.IsSingle() {
		return fmt.Errorf("%w: %s", ErrNotSingleModifier, m)
	}

	next := m
	if existing, ok := e.hold.Mods(); ok && combine {
		next = existing.Toggle(m)
	}
	if next.MixedSides() {
		return fmt.Errorf("%w: %s", keycode.ErrMixedSides, next)
	}

	e.hold = ModsHold(next)
	e.update()
	return nil
}

// ChooseLayer sets the hold to layer l.
func (e *Editor) ChooseLayer(l keycode.Layer) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLayer, l)
	}
	e.hold = LayerHold(l)
	e.update()
	return nil
}

// SetShift updates the shift context. The hold and tap key are unchanged and
// nothing is emitted.
func (e *Editor) SetShift(shift bool) {
	e.shift = shift
	e.deriveSensitivity()
}

// Load seeds the editor from a stored binding without notifying listeners.
// A nil keycode or a Basic keycode resets the selection to Empty, since a
// plain key has no hold action.
func (e *Editor) Load(existing *keycode.Keycode) {
	e.hold = Hold{}
	e.tap = ""
	e.hasTap = false

	if existing != nil {
		switch existing.Kind() {
		case keycode.KindModTap:
			e.hold = ModsHold(existing.Mods())
			e.tap, e.hasTap = existing.Key(), true
		case keycode.KindLayerTap:
			e.hold = LayerHold(existing.Layer())
			e.tap, e.hasTap = existing.Key(), true
		}
	}

	e.deriveSensitivity()
}

// Hold returns the current hold action.
func (e *Editor) Hold() Hold {
	return e.hold
}

// Tap returns the chosen tap key, if any.
func (e *Editor) Tap() (string, bool) {
	return e.tap, e.hasTap
}

// Shift reports the shift context.
func (e *Editor) Shift() bool {
	return e.shift
}

// State classifies the current selection.
func (e *Editor) State() State {
	switch {
	case !e.hold.IsEmpty() && e.hasTap:
		return StateComplete
	case e.hold.IsEmpty() && !e.hasTap:
		return StateEmpty
	default:
		return StateHoldOnly
	}
}

// Keycode returns the derived keycode when the editor is Complete.
func (e *Editor) Keycode() (keycode.Keycode, bool) {
	if e.State() != StateComplete {
		return keycode.Keycode{}, false
	}
	if l, ok := e.hold.Layer(); ok {
		return keycode.LayerTap(l, e.tap), true
	}
	return keycode.ModTap(e.hold.mods, e.tap), true
}

// update re-derives sensitivity and emits when Complete.
func (e *Editor) update() {
	e.deriveSensitivity()

	k, ok := e.Keycode()
	if !ok {
		return
	}
	// Listeners may unsubscribe while being called.
	listeners := make([]listenerEntry, len(e.listeners))
	copy(listeners, e.listeners)
	for _, l := range listeners {
		l.fn(k)
	}
}

func (e *Editor) deriveSensitivity() {
	held, isMods := e.hold.Mods()

	for i := range e.sens.layers {
		e.sens.layers[i] = !e.shift || e.hold.IsEmpty()
	}

	for i, m := range mods.All() {
		switch {
		case !e.shift:
			e.sens.mods[i] = true
		case !isMods:
			e.sens.mods[i] = false
		default:
			e.sens.mods[i] = held.IsEmpty() || m.HasRightSide() == held.HasRightSide()
		}
	}

	e.sens.tap = !e.hold.IsEmpty() && (!e.shift || !e.hasTap)
}

// ModifierEnabled reports whether the option for the single modifier m is
// selectable.
func (e *Editor) ModifierEnabled(m mods.Mods) bool {
	for i, opt := range mods.All() {
		if opt == m {
			return e.sens.mods[i]
		}
	}
	return false
}

// LayerEnabled reports whether the option for layer l is selectable.
func (e *Editor) LayerEnabled(l keycode.Layer) bool {
	if !l.Valid() {
		return false
	}
	return e.sens.layers[l]
}

// TapEnabled reports whether the tap picker is selectable.
func (e *Editor) TapEnabled() bool {
	return e.sens.tap
}
