// Package backlight builds the per-board backlight controls.
//
// Load enumerates the boards of a daemon session and returns one Page per
// board holding the values read at load time. A Page is the working copy
// behind a brightness slider and a color button: writes go straight to the
// daemon and the working value changes only when the write succeeds.
package backlight

import (
	"context"
	"fmt"

	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/logging"
)

// Page is the backlight state of one board.
type Page struct {
	board *daemon.Board
	log   *logging.Logger

	model         string
	maxBrightness int
	brightness    int
	color         daemon.Color
}

// Load builds one page per attached board. A board that cannot be read is
// logged and left out. Zero boards yields zero pages without error.
func Load(ctx context.Context, s *daemon.Session, log *logging.Logger) ([]*Page, error) {
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("backlight")

	boards, err := s.Boards(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]*Page, 0, len(boards))
	for _, b := range boards {
		p := &Page{board: b, log: log.WithField("board", b.ID())}
		if err := p.Refresh(ctx); err != nil {
			p.log.Error("skipping board: %v", err)
			continue
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// Refresh re-reads model, range, layer 0 brightness and color.
func (p *Page) Refresh(ctx context.Context) error {
	model, err := p.board.Model(ctx)
	if err != nil {
		return err
	}
	maxValue, err := p.board.MaxBrightness(ctx)
	if err != nil {
		return err
	}
	brightness, err := p.board.Brightness(ctx, 0)
	if err != nil {
		return err
	}
	color, err := p.board.Color(ctx)
	if err != nil {
		return err
	}

	p.model = model
	p.maxBrightness = maxValue
	p.brightness = brightness
	p.color = color
	return nil
}

// Board returns the daemon handle.
func (p *Page) Board() *daemon.Board {
	return p.board
}

// Model returns the board model.
func (p *Page) Model() string {
	return p.model
}

// MaxBrightness returns the brightness upper bound.
func (p *Page) MaxBrightness() int {
	return p.maxBrightness
}

// Brightness returns the working layer 0 brightness.
func (p *Page) Brightness() int {
	return p.brightness
}

// Color returns the working color.
func (p *Page) Color() daemon.Color {
	return p.color
}

// Clamp bounds v to [0, MaxBrightness].
func (p *Page) Clamp(v int) int {
	return min(max(v, 0), p.maxBrightness)
}

// SetBrightness clamps v and writes it to layer 0. On failure the working
// value is kept and the board should be refreshed before retrying.
func (p *Page) SetBrightness(ctx context.Context, v int) error {
	v = p.Clamp(v)
	if err := p.board.SetBrightness(ctx, 0, v); err != nil {
		p.log.Error("set brightness %d: %v", v, err)
		return err
	}
	p.brightness = v
	return nil
}

// SetColor writes c. On failure the working value is kept.
func (p *Page) SetColor(ctx context.Context, c daemon.Color) error {
	if err := p.board.SetColor(ctx, c); err != nil {
		p.log.Error("set color %s: %v", c, err)
		return err
	}
	p.color = c
	return nil
}

// Summary is a serializable view of a page.
type Summary struct {
	Board         daemon.BoardID `json:"board" yaml:"board"`
	Model         string         `json:"model" yaml:"model"`
	Brightness    int            `json:"brightness" yaml:"brightness"`
	MaxBrightness int            `json:"maxBrightness" yaml:"maxBrightness"`
	Color         string         `json:"color" yaml:"color"`
}

// Summary returns the working values of p.
func (p *Page) Summary() Summary {
	return Summary{
		Board:         p.board.ID(),
		Model:         p.model,
		Brightness:    p.brightness,
		MaxBrightness: p.maxBrightness,
		Color:         p.color.String(),
	}
}

// Find returns the page whose board id or index matches ref.
func Find(pages []*Page, ref string) (*Page, error) {
	for _, p := range pages {
		if string(p.board.ID()) == ref {
			return p, nil
		}
	}
	for _, p := range pages {
		if fmt.Sprint(p.board.Index()) == ref {
			return p, nil
		}
	}
	return nil, daemon.UnknownBoard(daemon.BoardID(ref))
}
