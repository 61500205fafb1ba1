// Package sysfs controls keyboard backlights through the Linux LED class.
//
// Each "<device>::kbd_backlight" directory under the LED class root is one
// board with a single backlight layer. Brightness is read from and written
// to the "brightness" file and bounded by "max_brightness". Boards with an
// RGB backlight expose a "color" file holding six hex digits; boards without
// one report white and accept only white.
package sysfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/keyconfig/internal/daemon"
)

// DefaultRoot is the LED class directory.
const DefaultRoot = "/sys/class/leds"

const (
	backlightSuffix = "::kbd_backlight"

	fileBrightness    = "brightness"
	fileMaxBrightness = "max_brightness"
	fileColor         = "color"
)

var white = daemon.Color{R: 0xff, G: 0xff, B: 0xff}

// Backend is a daemon.Daemon over an LED class directory.
type Backend struct {
	root string
}

// New returns a backend rooted at root, or DefaultRoot when root is empty.
func New(root string) *Backend {
	if root == "" {
		root = DefaultRoot
	}
	return &Backend{root: root}
}

// Root returns the LED class directory.
func (b *Backend) Root() string {
	return b.root
}

// Boards lists the keyboard backlight devices in name order.
func (b *Backend) Boards(context.Context) ([]daemon.BoardID, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", daemon.ErrDaemonUnavailable, b.root, err)
		}
		return nil, daemon.Transport(err)
	}

	var ids []daemon.BoardID
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), backlightSuffix) {
			ids = append(ids, daemon.BoardID(e.Name()))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// dir resolves the device directory for id.
func (b *Backend) dir(id daemon.BoardID) (string, error) {
	name := string(id)
	if !strings.HasSuffix(name, backlightSuffix) || strings.ContainsAny(name, `/\`) || name == backlightSuffix {
		return "", daemon.UnknownBoard(id)
	}
	path := filepath.Join(b.root, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", daemon.UnknownBoard(id)
		}
		return "", daemon.Transport(err)
	}
	return path, nil
}

// Model returns the device part of the LED name.
func (b *Backend) Model(_ context.Context, id daemon.BoardID) (string, error) {
	if _, err := b.dir(id); err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(id), backlightSuffix), nil
}

// LayerCount is always one.
func (b *Backend) LayerCount(_ context.Context, id daemon.BoardID) (int, error) {
	if _, err := b.dir(id); err != nil {
		return 0, err
	}
	return 1, nil
}

func (b *Backend) MaxBrightness(_ context.Context, id daemon.BoardID) (int, error) {
	dir, err := b.dir(id)
	if err != nil {
		return 0, err
	}
	return readInt(filepath.Join(dir, fileMaxBrightness))
}

func (b *Backend) Brightness(_ context.Context, id daemon.BoardID, layer int) (int, error) {
	dir, err := b.dir(id)
	if err != nil {
		return 0, err
	}
	if layer != 0 {
		return 0, daemon.InvalidLayer(layer, 1)
	}
	return readInt(filepath.Join(dir, fileBrightness))
}

func (b *Backend) SetBrightness(_ context.Context, id daemon.BoardID, layer, value int) error {
	dir, err := b.dir(id)
	if err != nil {
		return err
	}
	if layer != 0 {
		return daemon.InvalidLayer(layer, 1)
	}
	maxValue, err := readInt(filepath.Join(dir, fileMaxBrightness))
	if err != nil {
		return err
	}
	if value < 0 || value > maxValue {
		return daemon.InvalidBrightness(value, maxValue)
	}
	return writeFile(filepath.Join(dir, fileBrightness), strconv.Itoa(value))
}

func (b *Backend) Color(_ context.Context, id daemon.BoardID) (daemon.Color, error) {
	dir, err := b.dir(id)
	if err != nil {
		return daemon.Color{}, err
	}
	raw, err := os.ReadFile(filepath.Join(dir, fileColor))
	if errors.Is(err, fs.ErrNotExist) {
		return white, nil
	}
	if err != nil {
		return daemon.Color{}, daemon.Transport(err)
	}
	c, err := daemon.ParseColor(string(raw))
	if err != nil {
		return daemon.Color{}, fmt.Errorf("%w: %v", daemon.ErrTransport, err)
	}
	return c, nil
}

func (b *Backend) SetColor(_ context.Context, id daemon.BoardID, c daemon.Color) error {
	dir, err := b.dir(id)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fileColor)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if c == white {
			return nil
		}
		return fmt.Errorf("%w: %s has no color control", daemon.ErrInvalidRange, id)
	}
	return writeFile(path, strings.ToUpper(c.String()))
}

// Close is a no-op; every call opens its own files.
func (b *Backend) Close() error {
	return nil
}

func readInt(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, daemon.Transport(err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, daemon.Transport(fmt.Errorf("%s: %w", path, err))
	}
	return v, nil
}

func writeFile(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return daemon.Transport(err)
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return daemon.Transport(err)
	}
	return daemon.Transport(f.Close())
}
