package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
	"github.com/dshills/keyconfig/internal/keyboard/taphold"
	"github.com/dshills/keyconfig/internal/store"
)

// ErrIncompleteBinding is returned by bind when the editor has no hold or no
// tap key after the flags are applied.
var ErrIncompleteBinding = errors.New("binding incomplete")

type bindAddress struct {
	board    string
	layer    int
	position string
}

func parseAddress(args []string) (bindAddress, error) {
	layer, err := strconv.Atoi(args[1])
	if err != nil {
		return bindAddress{}, fmt.Errorf("invalid keymap layer %q: %w", args[1], err)
	}
	return bindAddress{board: args[0], layer: layer, position: args[2]}, nil
}

func newBindCmd(app *App) *cobra.Command {
	var (
		holds     []string
		holdLayer int
		tap       string
		shift     bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "bind <board> <layer> <position>",
		Short: "Edit the tap-hold binding of a key and save it",
		Long: strings.TrimSpace(`
Edit the tap-hold binding stored for a key position.

The existing binding, if any, is loaded into the editor first. Each --hold
toggles one modifier: the first replaces the hold unless --shift is given,
later ones combine with it. --layer selects a layer hold instead. --tap sets
the key sent when the key is tapped. Once the hold and tap are both chosen the
binding is saved.
`),
		Example: strings.TrimSpace(`
  keyconfig bind kbd0 0 K12 --hold LEFT_CTRL --tap ESCAPE
  keyconfig bind kbd0 0 K12 --shift --hold LEFT_SHIFT
  keyconfig bind kbd0 1 K40 --layer 1 --tap SPACE
  keyconfig bind kbd0 0 K12 --shift --dry-run
`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr, err := parseAddress(args)
			if err != nil {
				return err
			}
			layerSet := cmd.Flags().Changed("layer")
			if layerSet && len(holds) > 0 {
				return errors.New("use --hold or --layer, not both")
			}

			return app.withStore(ctx, func(st *store.Store) error {
				ed := taphold.New()

				existing, err := st.Get(ctx, addr.board, addr.layer, addr.position)
				switch {
				case err == nil:
					k := existing.Keycode
					ed.Load(&k)
				case errors.Is(err, store.ErrNotFound):
				default:
					return err
				}
				ed.SetShift(shift)

				var selected *keycode.Keycode
				sub := ed.OnSelect(func(k keycode.Keycode) {
					app.log.Debug("selected %s", k)
					selected = &k
				})
				defer sub.Unsubscribe()

				if layerSet {
					if holdLayer < 0 || holdLayer >= keycode.NumLayers {
						return fmt.Errorf("%w: %d", taphold.ErrInvalidLayer, holdLayer)
					}
					if err := ed.ChooseLayer(keycode.Layer(holdLayer)); err != nil {
						return err
					}
				}
				for i, name := range holds {
					m, err := mods.Parse(strings.ToUpper(name))
					if err != nil {
						return err
					}
					if err := ed.ToggleModifier(m, shift || i > 0); err != nil {
						return fmt.Errorf("--hold %s: %w", name, err)
					}
				}
				if tap != "" {
					if err := ed.ChooseTap(strings.ToUpper(tap)); err != nil {
						return fmt.Errorf("--tap %s: %w", tap, err)
					}
				}

				if dryRun {
					return writeOut(cmd, app, map[string]any{"data": ed.Options()})
				}
				if ed.State() != taphold.StateComplete {
					return fmt.Errorf("%w (%s): choose a hold with --hold or --layer and a tap key with --tap",
						ErrIncompleteBinding, ed.State())
				}

				k, _ := ed.Keycode()
				if selected != nil {
					k = *selected
				}
				b, err := st.Put(ctx, addr.board, addr.layer, addr.position, k)
				if err != nil {
					return err
				}
				app.log.Info("bound %s/%d/%s to %s", b.Board, b.Layer, b.Position, b.Text)
				return writeOut(cmd, app, map[string]any{"data": b})
			})
		},
	}

	cmd.Flags().StringArrayVar(&holds, "hold", nil, "Modifier to toggle in the hold (repeatable), e.g. LEFT_CTRL")
	cmd.Flags().IntVar(&holdLayer, "layer", 0, "Hold layer (0-3) instead of modifiers")
	cmd.Flags().StringVar(&tap, "tap", "", "Tap key, e.g. ESCAPE")
	cmd.Flags().BoolVar(&shift, "shift", false, "Combine modifiers with the current hold, as a shift-click does")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the editor options without saving")
	return cmd
}

func newBindingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Stored binding commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list [board]",
		Short: "List stored bindings (optionally for a single board)",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board := ""
			if len(args) == 1 {
				board = args[0]
			}
			return app.withStore(cmd.Context(), func(st *store.Store) error {
				out, err := st.List(cmd.Context(), board)
				if err != nil {
					return err
				}
				if out == nil {
					out = []store.Binding{}
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <board> <layer> <position>",
		Short: "Delete a stored binding",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args)
			if err != nil {
				return err
			}
			return app.withStore(cmd.Context(), func(st *store.Store) error {
				if err := st.Delete(cmd.Context(), addr.board, addr.layer, addr.position); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"board":    addr.board,
					"layer":    addr.layer,
					"position": addr.position,
					"deleted":  true,
				}})
			})
		},
	})
	return cmd
}
