package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/keyconfig/internal/backlight"
	"github.com/dshills/keyconfig/internal/daemon"
)

func newBoardsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List attached boards with their backlight state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withPages(cmd.Context(), func(pages []*backlight.Page) error {
				out := make([]backlight.Summary, 0, len(pages))
				for _, p := range pages {
					out = append(out, p.Summary())
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			})
		},
	}
}

func newBrightnessCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brightness",
		Short: "Backlight brightness commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <board>",
		Short: "Show the brightness of a board (id or index)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withPage(cmd.Context(), args[0], func(p *backlight.Page) error {
				return writeOut(cmd, app, map[string]any{"data": p.Summary()})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <board> <value>",
		Short: "Set the brightness of a board; values are clamped to [0, max]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid brightness %q: %w", args[1], err)
			}
			return app.withPage(cmd.Context(), args[0], func(p *backlight.Page) error {
				if err := p.SetBrightness(cmd.Context(), v); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": p.Summary()})
			})
		},
	})
	return cmd
}

func newColorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Backlight color commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <board>",
		Short: "Show the backlight color of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withPage(cmd.Context(), args[0], func(p *backlight.Page) error {
				return writeOut(cmd, app, map[string]any{"data": p.Summary()})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <board> <RRGGBB>",
		Short: "Set the backlight color of a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := daemon.ParseColor(args[1])
			if err != nil {
				return err
			}
			return app.withPage(cmd.Context(), args[0], func(p *backlight.Page) error {
				if err := p.SetColor(cmd.Context(), c); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": p.Summary()})
			})
		},
	})
	return cmd
}
