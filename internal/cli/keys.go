package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

type keyView struct {
	Name  string `json:"name" yaml:"name"`
	Code  string `json:"code" yaml:"code"`
	Basic bool   `json:"basic" yaml:"basic"`
}

type layerView struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
}

type keysView struct {
	Keys      []keyView   `json:"keys" yaml:"keys"`
	Modifiers []string    `json:"modifiers" yaml:"modifiers"`
	Layers    []layerView `json:"layers" yaml:"layers"`
}

// codeView is a keycode in both of its forms.
type codeView struct {
	Keycode string `json:"keycode" yaml:"keycode"`
	Kind    string `json:"kind" yaml:"kind"`
	Wire    uint16 `json:"wire" yaml:"wire"`
	Hex     string `json:"hex" yaml:"hex"`
}

func newCodeView(k keycode.Keycode, wire uint16) codeView {
	return codeView{
		Keycode: k.String(),
		Kind:    k.Kind().String(),
		Wire:    wire,
		Hex:     fmt.Sprintf("0x%04X", wire),
	}
}

func newKeysCmd(app *App) *cobra.Command {
	var basicOnly bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key names, modifiers and hold layers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out keysView
			for _, k := range keycode.Keys() {
				if basicOnly && !k.Basic {
					continue
				}
				out.Keys = append(out.Keys, keyView{Name: k.Name, Code: fmt.Sprintf("0x%04X", k.Code), Basic: k.Basic})
			}
			for _, m := range mods.All() {
				out.Modifiers = append(out.Modifiers, m.String())
			}
			for _, l := range keycode.Layers() {
				out.Layers = append(out.Layers, layerView{Index: int(l), Name: l.Name()})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().BoolVar(&basicOnly, "basic", false, "Only keys usable as a tap action or with modifiers")
	return cmd
}

func newEncodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <keycode>",
		Short: `Encode a binding such as "MT(LEFT_CTRL, ESCAPE)" to its firmware value`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := keycode.Parse(args[0])
			if err != nil {
				return err
			}
			wire, err := keycode.Encode(k)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": newCodeView(k, wire)})
		},
	}
}

func newDecodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <wire>",
		Short: "Decode a firmware value (decimal or 0x hex) to a binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[0], 0, 16)
			if err != nil {
				return fmt.Errorf("invalid wire value %q: %w", args[0], err)
			}
			k, err := keycode.Decode(uint16(v))
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": newCodeView(k, uint16(v))})
		},
	}
}
