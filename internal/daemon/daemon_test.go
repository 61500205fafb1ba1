package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  Color
	}{
		{"ff0000", Color{R: 0xff}},
		{"#00FF00", Color{G: 0xff}},
		{" 0000ff ", Color{B: 0xff}},
		{"123456", Color{R: 0x12, G: 0x34, B: 0x56}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, input := range []string{"", "fff", "gg0000", "#1234567", "red"} {
		if _, err := ParseColor(input); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want %v", input, err, ErrInvalidColor)
		}
	}
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Color Color `json:"color"`
	}{Color{R: 0xab, G: 0xcd, B: 0xef}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"color":"abcdef"}` {
		t.Errorf("Marshal = %s", data)
	}

	var out struct {
		Color Color `json:"color"`
	}
	if err := json.Unmarshal([]byte(`{"color":"#010203"}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Color != (Color{1, 2, 3}) {
		t.Errorf("Unmarshal = %v", out.Color)
	}
}

func TestNoneBackend(t *testing.T) {
	ctx := context.Background()
	var d Daemon = None{}

	if _, err := d.Boards(ctx); !errors.Is(err, ErrDaemonUnavailable) {
		t.Errorf("Boards() error = %v, want %v", err, ErrDaemonUnavailable)
	}
	if _, err := d.Brightness(ctx, "x", 0); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("Brightness() error = %v, want %v", err, ErrUnknownBoard)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestMemoryValidates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(MemoryBoard{ID: "a", MaxBrightness: 10})

	if err := m.SetBrightness(ctx, "a", 0, 11); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("SetBrightness(11) error = %v, want %v", err, ErrInvalidRange)
	}
	if _, err := m.Brightness(ctx, "a", 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Brightness(layer 1) error = %v, want %v", err, ErrInvalidRange)
	}
	if _, err := m.Color(ctx, "b"); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("Color(b) error = %v, want %v", err, ErrUnknownBoard)
	}
	if v, _ := m.Brightness(ctx, "a", 0); v != 0 {
		t.Errorf("Brightness() = %d, want 0", v)
	}
}

func TestTransportWrap(t *testing.T) {
	if Transport(nil) != nil {
		t.Error("Transport(nil) should be nil")
	}
	if err := Transport(io.EOF); !errors.Is(err, ErrTransport) {
		t.Errorf("Transport(EOF) = %v, want %v", err, ErrTransport)
	}
	if err := Transport(UnknownBoard("x")); errors.Is(err, ErrTransport) || !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("Transport(UnknownBoard) = %v, want unchanged kind", err)
	}
}

func TestBoardErrorIs(t *testing.T) {
	err := &BoardError{Op: "color", Board: "kbd0", Err: ErrTransport}
	if !errors.Is(err, ErrTransport) {
		t.Error("BoardError should match the wrapped error")
	}
	if !errors.Is(err, err) {
		t.Error("BoardError should match itself")
	}
	if errors.Is(err, &BoardError{Op: "color", Board: "kbd0", Err: ErrTransport}) {
		t.Error("distinct BoardError instances should not match")
	}
	if got := err.Error(); got != "color kbd0: transport error" {
		t.Errorf("Error() = %q", got)
	}
}
