// Package keycode provides firmware key bindings and their wire encoding.
//
// A Keycode is one of three kinds:
//
//   - Basic: an ordinary key, optionally with held modifiers ("LEFT_CTRL|C")
//   - ModTap: hold for modifiers, tap for a key ("MT(LEFT_CTRL, ESCAPE)")
//   - LayerTap: hold to activate a layer, tap for a key ("LT(1, SPACE)")
//
// Keycode values are immutable and comparable with ==.
//
// # Wire Format
//
// Encode and Decode convert between a Keycode and the firmware's 16-bit
// keycode:
//
//	0x0000-0x00FF  basic key
//	0x0100-0x1FFF  basic key with modifiers   mods<<8 | key
//	0x2000-0x3FFF  mod-tap                    0x2000 | mods<<8 | key
//	0x4000-0x43FF  layer-tap                  0x4000 | layer<<8 | key
//	other          exact firmware keys (layer switches, vendor keys)
//
// The firmware modifier field is five bits: CTRL, SHIFT, ALT, GUI and a single
// RIGHT flag, so one binding cannot mix left- and right-hand modifiers.
// Decode(Encode(k)) == k for every Keycode that Encode accepts, and Decode
// rejects any value it does not recognise with ErrUnknownKeycode.
package keycode
