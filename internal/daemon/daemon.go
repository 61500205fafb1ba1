package daemon

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
)

// BoardID identifies a board within one daemon connection.
type BoardID string

// Daemon is a control channel to keyboard backlight hardware.
//
// Implementations validate every argument. Brightness values outside
// [0, MaxBrightness] and layers outside [0, LayerCount) fail with
// ErrInvalidRange; unknown ids fail with ErrUnknownBoard.
type Daemon interface {
	// Boards enumerates the attached boards. An empty result is not an error.
	Boards(ctx context.Context) ([]BoardID, error)

	// Model returns a human-readable board model.
	Model(ctx context.Context, id BoardID) (string, error)

	// LayerCount returns the number of backlight layers.
	LayerCount(ctx context.Context, id BoardID) (int, error)

	// MaxBrightness returns the upper bound for brightness values.
	MaxBrightness(ctx context.Context, id BoardID) (int, error)

	// Brightness returns the brightness of a layer.
	Brightness(ctx context.Context, id BoardID, layer int) (int, error)

	// SetBrightness sets the brightness of a layer.
	SetBrightness(ctx context.Context, id BoardID, layer, value int) error

	// Color returns the board color.
	Color(ctx context.Context, id BoardID) (Color, error)

	// SetColor sets the board color.
	SetColor(ctx context.Context, id BoardID, c Color) error

	// Close releases the control channel.
	Close() error
}

// Color is one RGB value per board.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "RRGGBB", optionally prefixed with "#".
func ParseColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: b[0], G: b[1], B: b[2]}, nil
}

// String returns lowercase "rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// None is the backend used when no hardware is present.
type None struct{}

// Boards always fails with ErrDaemonUnavailable.
func (None) Boards(context.Context) ([]BoardID, error) {
	return nil, ErrDaemonUnavailable
}

func (None) Model(_ context.Context, id BoardID) (string, error) {
	return "", UnknownBoard(id)
}

func (None) LayerCount(_ context.Context, id BoardID) (int, error) {
	return 0, UnknownBoard(id)
}

func (None) MaxBrightness(_ context.Context, id BoardID) (int, error) {
	return 0, UnknownBoard(id)
}

func (None) Brightness(_ context.Context, id BoardID, _ int) (int, error) {
	return 0, UnknownBoard(id)
}

func (None) SetBrightness(_ context.Context, id BoardID, _, _ int) error {
	return UnknownBoard(id)
}

func (None) Color(_ context.Context, id BoardID) (Color, error) {
	return Color{}, UnknownBoard(id)
}

func (None) SetColor(_ context.Context, id BoardID, _ Color) error {
	return UnknownBoard(id)
}

func (None) Close() error {
	return nil
}

// UnknownBoard returns an ErrUnknownBoard error for id.
func UnknownBoard(id BoardID) error {
	return fmt.Errorf("%w: %q", ErrUnknownBoard, id)
}

// InvalidLayer returns an ErrInvalidRange error for a layer outside [0, count).
func InvalidLayer(layer, count int) error {
	return fmt.Errorf("%w: layer %d not in [0, %d)", ErrInvalidRange, layer, count)
}

// InvalidBrightness returns an ErrInvalidRange error for a value outside [0, max].
func InvalidBrightness(value, maxValue int) error {
	return fmt.Errorf("%w: brightness %d not in [0, %d]", ErrInvalidRange, value, maxValue)
}
