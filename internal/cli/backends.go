package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/keyconfig/internal/backlight"
	"github.com/dshills/keyconfig/internal/config"
	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/daemon/rpc"
	"github.com/dshills/keyconfig/internal/daemon/sysfs"
	"github.com/dshills/keyconfig/internal/daemon/wsrpc"
	"github.com/dshills/keyconfig/internal/store"
)

// openDaemon connects to the backend named by the configuration.
func (app *App) openDaemon(ctx context.Context) (daemon.Daemon, error) {
	dc := app.cfg.Daemon
	opts := []rpc.Option{
		rpc.WithTimeout(time.Duration(dc.Timeout)),
		rpc.WithLogger(app.log),
	}

	switch dc.Backend {
	case config.BackendSysfs:
		return sysfs.New(dc.SysfsRoot), nil
	case config.BackendHelper:
		c, err := rpc.Spawn(dc.Helper, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendWS:
		c, err := wsrpc.Dial(ctx, dc.URL, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendMemory:
		return daemon.NewMemory(daemon.MemoryBoard{
			ID:            "demo",
			Model:         "demo",
			MaxBrightness: 255,
			Brightness:    []int{128},
			Color:         daemon.Color{R: 0xff, G: 0xff, B: 0xff},
		}), nil
	case config.BackendNone:
		return daemon.None{}, nil
	default:
		return nil, fmt.Errorf("%w: daemon.backend %q", config.ErrInvalidConfig, dc.Backend)
	}
}

// withPages opens a session, loads one backlight page per board and calls fn.
func (app *App) withPages(ctx context.Context, fn func([]*backlight.Page) error) error {
	d, err := app.newDaemon(ctx)
	if err != nil {
		return err
	}
	s := daemon.NewSession(d)
	defer func() {
		if err := s.Close(); err != nil {
			app.log.Warn("close daemon: %v", err)
		}
	}()

	pages, err := backlight.Load(ctx, s, app.log)
	if err != nil {
		return err
	}
	return fn(pages)
}

// withPage is withPages for the single board matching ref.
func (app *App) withPage(ctx context.Context, ref string, fn func(*backlight.Page) error) error {
	return app.withPages(ctx, func(pages []*backlight.Page) error {
		p, err := backlight.Find(pages, ref)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

// withStore opens the binding database and calls fn.
func (app *App) withStore(ctx context.Context, fn func(*store.Store) error) error {
	st, err := store.Open(ctx, app.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store %s: %w", app.cfg.Store.Path, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			app.log.Warn("close store: %v", err)
		}
	}()
	return fn(st)
}
