package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keyconfig/internal/logging"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		first, next, want Operation
	}{
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpWrite, OpWrite},
		{OpWrite, OpRemove, OpRemove},
		{OpRemove, OpCreate, OpCreate},
	}

	for _, tt := range tests {
		got := coalesce(&Event{Op: tt.first}, Event{Op: tt.next})
		if got.Op != tt.want {
			t.Errorf("coalesce(%s, %s) = %s, want %s", tt.first, tt.next, got.Op, tt.want)
		}
	}
	if got := coalesce(nil, Event{Op: OpWrite}); got.Op != OpWrite {
		t.Errorf("coalesce(nil, write) = %s", got.Op)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "config.toml")); err == nil {
		t.Error("New() with a missing directory should fail")
	}
}

func startWatcher(t *testing.T, path string, debounce time.Duration) <-chan Event {
	t.Helper()
	w, err := New(path, WithDebounce(debounce), WithLogger(logging.Null()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ev Event) { events <- ev })
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() = %v", err)
		}
		_ = w.Close()
	})
	return events
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := startWatcher(t, path, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-events:
		if ev.Path != path {
			t.Errorf("event path = %q, want %q", ev.Path, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event after writes")
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected second event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	events := startWatcher(t, path, 0)

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Op != OpCreate && ev.Op != OpWrite {
			t.Errorf("event op = %s, want create or write", ev.Op)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for the watched file")
	}
}

func TestWatcherSurvivesHandlerPanic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := New(path, WithDebounce(0), WithLogger(logging.Null()))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 16)
	go func() {
		_ = w.Run(ctx, func(Event) {
			calls <- struct{}{}
			panic("boom")
		})
	}()

	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-calls:
		case <-time.After(3 * time.Second):
			t.Fatalf("handler not called for write %d", i)
		}
	}
}

func TestRunAfterClose(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.toml"), WithLogger(logging.Null()))
	if err != nil {
		t.Fatal(err)
	}
	_ = w.Close()
	if err := w.Run(context.Background(), func(Event) {}); err != ErrWatcherClosed {
		t.Errorf("Run() after Close = %v, want %v", err, ErrWatcherClosed)
	}
}
