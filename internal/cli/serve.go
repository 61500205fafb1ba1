package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/keyconfig/internal/config"
	"github.com/dshills/keyconfig/internal/config/watcher"
	"github.com/dshills/keyconfig/internal/daemon/rpc"
	"github.com/dshills/keyconfig/internal/daemon/sysfs"
	"github.com/dshills/keyconfig/internal/daemon/wsrpc"
	"github.com/dshills/keyconfig/internal/logging"
)

func newDaemonCmd(app *App) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Serve the sysfs backend over stdin/stdout",
		Long: "Serve the sysfs backend over stdin/stdout using newline-delimited JSON.\n" +
			"This is the privileged helper started by the helper backend, e.g. via pkexec.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("root") {
				root = app.cfg.Daemon.SysfsRoot
			}
			backend := sysfs.New(root)
			defer backend.Close()

			var closer io.Closer
			if c, ok := cmd.InOrStdin().(io.Closer); ok {
				closer = c
			}
			conn := rpc.NewStreamConn(cmd.InOrStdin(), cmd.OutOrStdout(), closer)

			app.log.Info("serving %s on stdio", root)
			return rpc.NewServer(backend, app.log).Serve(cmd.Context(), conn)
		},
	}

	cmd.Flags().StringVar(&root, "root", sysfs.DefaultRoot, "LED class directory")
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured backend to WebSocket clients",
		Long: "Serve the configured backend at ws://<listen>/ws until interrupted.\n" +
			"The config file is watched and the log level re-applied when it changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if app.cfg.Daemon.Backend == config.BackendWS {
				return errors.New("serve cannot use the ws backend")
			}
			if !cmd.Flags().Changed("listen") {
				listen = app.cfg.Serve.Listen
			}

			d, err := app.newDaemon(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			hub := wsrpc.NewHub(d, wsrpc.HubOptions{Addr: listen, Logger: app.log})
			if err := hub.Start(ctx); err != nil {
				return err
			}
			defer hub.Stop()

			levelPinned := cmd.Flags().Changed("log-level")
			w, err := watcher.New(app.ConfigPath, watcher.WithLogger(app.log))
			if err != nil {
				app.log.Warn("config reload disabled: %v", err)
			} else {
				defer w.Close()
				go func() {
					_ = w.Run(ctx, func(ev watcher.Event) {
						app.reload(ev, levelPinned)
					})
				}()
			}

			if err := writeOut(cmd, app, map[string]any{"data": map[string]any{"url": hub.URL()}}); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "Listen address")
	return cmd
}

// reload re-reads the config file after a change and applies what can
// change while serving. A removed or renamed file keeps the current settings.
func (app *App) reload(ev watcher.Event, levelPinned bool) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		app.log.Warn("skipping reload after %s of %s", ev.Op, ev.Path)
		return
	}
	cfg, err := config.LoadRequired(ev.Path)
	if err != nil {
		app.log.Warn("reload %s: %v", ev.Path, err)
		return
	}
	if !levelPinned {
		level, _ := logging.ParseLevel(cfg.Logging.Level)
		app.log.SetLevel(level)
	}
	app.log.Info("reloaded %s after %s", ev.Path, ev.Op)
}
