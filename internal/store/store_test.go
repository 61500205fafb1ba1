package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"
	"github.com/dshills/keyconfig/internal/keyboard/mods"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "bindings.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	tests := []struct {
		name string
		k    keycode.Keycode
		wire uint16
	}{
		{"basic", keycode.Basic(mods.None, "A"), 0x0004},
		{"basic with mods", keycode.Basic(mods.LeftCtrl, "C"), 0x0106},
		{"mod-tap", keycode.ModTap(mods.LeftCtrl, "ESCAPE"), 0x2129},
		{"layer-tap", keycode.LayerTap(1, "SPACE"), 0x412c},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := string(rune('a' + i))
			put, err := s.Put(ctx, "kbd0", 0, pos, tt.k)
			if err != nil {
				t.Fatalf("Put(%s) failed: %v", tt.k, err)
			}
			if put.Wire != tt.wire {
				t.Errorf("Put(%s).Wire = %#04x, want %#04x", tt.k, put.Wire, tt.wire)
			}

			got, err := s.Get(ctx, "kbd0", 0, pos)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got.Keycode != tt.k || got.Text != tt.k.String() || got.Wire != tt.wire {
				t.Errorf("Get() = %+v, want %s (%#04x)", got, tt.k, tt.wire)
			}
			if got.UpdatedAt.UnixMilli() != 1700000000123 {
				t.Errorf("Get().UpdatedAt = %v", got.UpdatedAt)
			}
		})
	}
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, "kbd0", 1, "K1", keycode.Basic(mods.None, "A")); err != nil {
		t.Fatal(err)
	}
	want := keycode.ModTap(mods.RightAlt, "B")
	if _, err := s.Put(ctx, "kbd0", 1, "K1", want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "kbd0", 1, "K1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Keycode != want {
		t.Errorf("Get() = %s, want %s", got.Keycode, want)
	}
	if list, _ := s.List(ctx, "kbd0"); len(list) != 1 {
		t.Errorf("List() = %d bindings, want 1", len(list))
	}
}

func TestPutRejects(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	key := keycode.Basic(mods.None, "A")

	tests := []struct {
		name     string
		board    string
		layer    int
		position string
		k        keycode.Keycode
		want     error
	}{
		{"empty board", "", 0, "K1", key, ErrInvalidBinding},
		{"negative layer", "kbd0", -1, "K1", key, ErrInvalidBinding},
		{"layer out of range", "kbd0", keycode.NumLayers, "K1", key, ErrInvalidBinding},
		{"empty position", "kbd0", 0, " ", key, ErrInvalidBinding},
		{"mixed sides", "kbd0", 0, "K1", keycode.ModTap(mods.LeftCtrl|mods.RightAlt, "A"), keycode.ErrMixedSides},
		{"empty mod-tap", "kbd0", 0, "K1", keycode.ModTap(mods.None, "A"), keycode.ErrEmptyMods},
		{"unknown key", "kbd0", 0, "K1", keycode.Basic(mods.None, "NOPE"), keycode.ErrUnknownKeycode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Put(ctx, tt.board, tt.layer, tt.position, tt.k); !errors.Is(err, tt.want) {
				t.Errorf("Put() error = %v, want %v", err, tt.want)
			}
		})
	}
	if list, _ := s.List(ctx, ""); len(list) != 0 {
		t.Errorf("List() = %d bindings after rejected puts, want 0", len(list))
	}
}

func TestGetNotFound(t *testing.T) {
	s := openStore(t)
	if _, err := s.Get(context.Background(), "kbd0", 0, "K1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	key := keycode.Basic(mods.None, "A")

	for _, addr := range []struct {
		board    string
		layer    int
		position string
	}{
		{"b", 0, "K1"},
		{"a", 1, "K2"},
		{"a", 0, "K9"},
		{"a", 0, "K1"},
	} {
		if _, err := s.Put(ctx, addr.board, addr.layer, addr.position, key); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.List(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/0/K1", "a/0/K9", "a/1/K2"}
	if len(got) != len(want) {
		t.Fatalf("List(a) = %d bindings, want %d", len(got), len(want))
	}
	for i, b := range got {
		addr := b.Board + "/" + string(rune('0'+b.Layer)) + "/" + b.Position
		if addr != want[i] {
			t.Errorf("List(a)[%d] = %s, want %s", i, addr, want[i])
		}
	}

	all, err := s.List(ctx, "")
	if err != nil || len(all) != 4 {
		t.Errorf("List(\"\") = %d, %v, want 4", len(all), err)
	}
	none, err := s.List(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("List(missing) = %d, %v, want 0", len(none), err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, "kbd0", 0, "K1", keycode.Basic(mods.None, "A")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "kbd0", 0, "K1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Get(ctx, "kbd0", 0, "K1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want %v", err, ErrNotFound)
	}
	if err := s.Delete(ctx, "kbd0", 0, "K1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestCorruptRow(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, "kbd0", 0, "K1", keycode.Basic(mods.None, "A")); err != nil {
		t.Fatal(err)
	}
	// Wire value now decodes to B while the text still says A.
	if _, err := s.db.ExecContext(ctx, `UPDATE bindings SET wire = 5`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "kbd0", 0, "K1"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get() error = %v, want %v", err, ErrCorrupt)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE bindings SET wire = 70000`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.List(ctx, "kbd0"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("List() error = %v, want %v", err, ErrCorrupt)
	}
}

func TestReopenKeepsBindings(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bindings.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	want := keycode.LayerTap(2, "ENTER")
	if _, err := s.Put(ctx, "kbd0", 3, "K7", want); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "kbd0", 3, "K7")
	if err != nil || got.Keycode != want {
		t.Errorf("Get() after reopen = %v, %v, want %s", got.Keycode, err, want)
	}
}
