// Package taphold implements the tap-hold binding editor.
//
// An Editor tracks two independent choices for one key: the action used
// while the key is held (a modifier combination or a layer) and the basic key
// sent when it is tapped. Whenever both are present the editor derives a
// ModTap or LayerTap keycode and delivers it to the OnSelect listeners.
//
// # States
//
// The state is implied by the field values:
//
//	Empty     hold is Mods(None), no tap key
//	HoldOnly  a hold action without a tap key, or a tap key with Mods(None)
//	Complete  a non-empty hold and a tap key; a keycode is emitted
//
// # Option Sensitivity
//
// After every transition the editor re-derives which modifier options, layer
// options and the tap picker are enabled. The shift context, set while a
// modifier is physically held during editing, locks the selection to one side
// of the keyboard and to a single committed tap choice.
//
// An Editor has a single owner and is not safe for concurrent use.
package taphold
