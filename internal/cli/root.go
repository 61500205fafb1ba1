// Package cli implements the keyconfig command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keyconfig/internal/config"
	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/format"
	"github.com/dshills/keyconfig/internal/logging"
)

// App holds the flags and resolved configuration shared by every command.
type App struct {
	ConfigPath string
	LogLevel   string
	Backend    string
	StorePath  string
	Format     string
	Pretty     bool

	cfg *config.Config
	log *logging.Logger

	// newDaemon opens the configured backend. Tests replace it.
	newDaemon func(ctx context.Context) (daemon.Daemon, error)
}

// NewRootCmd returns the keyconfig root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "keyconfig",
		Short:         "Keyboard key binding and backlight configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # List attached boards with their backlight state
  keyconfig boards

  # Bind K12 on keymap layer 0 to hold Ctrl, tap Escape
  keyconfig bind kbd0 0 K12 --hold LEFT_CTRL --tap ESCAPE

  # Encode a binding to its firmware value
  keyconfig encode "LT(1, SPACE)"
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/keyconfig/config.toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Daemon backend (sysfs|helper|ws|memory|none)")
	cmd.PersistentFlags().StringVar(&app.StorePath, "store", "", "Path to the binding database")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("KEYCONFIG_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output (default when stdout is a terminal)")

	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newBrightnessCmd(app))
	cmd.AddCommand(newColorCmd(app))
	cmd.AddCommand(newKeysCmd(app))
	cmd.AddCommand(newEncodeCmd(app))
	cmd.AddCommand(newDecodeCmd(app))
	cmd.AddCommand(newBindCmd(app))
	cmd.AddCommand(newBindingsCmd(app))
	cmd.AddCommand(newDaemonCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// init resolves configuration and logging. Flags override the file and
// environment.
func (app *App) init(cmd *cobra.Command) error {
	flags := cmd.Flags()

	var (
		cfg *config.Config
		err error
	)
	if flags.Changed("config") {
		cfg, err = config.LoadRequired(app.ConfigPath)
	} else {
		app.ConfigPath = config.DefaultPath()
		cfg, err = config.Load(app.ConfigPath)
	}
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level = app.LogLevel
	}
	if flags.Changed("backend") {
		cfg.Daemon.Backend = config.Backend(app.Backend)
	}
	if flags.Changed("store") {
		cfg.Store.Path = app.StorePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !slices.Contains(format.Formats, app.Format) {
		return fmt.Errorf("unknown format: %s (want one of %s)", app.Format, strings.Join(format.Formats, ", "))
	}
	if !flags.Changed("pretty") {
		app.Pretty = format.IsTerminal(cmd.OutOrStdout())
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	app.log = logging.New(logging.Config{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Prefix: "keyconfig",
	})
	logging.SetDefault(app.log)

	app.cfg = cfg
	if app.newDaemon == nil {
		app.newDaemon = app.openDaemon
	}
	app.log.Debug("config %s, backend %s", app.ConfigPath, cfg.Daemon.Backend)
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}
