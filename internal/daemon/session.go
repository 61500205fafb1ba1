package daemon

import (
	"context"
	"sync"
)

// Session owns one daemon connection and its current board snapshot.
type Session struct {
	mu     sync.Mutex
	d      Daemon
	gen    uint64
	boards map[BoardID]bool
}

// NewSession takes ownership of d.
func NewSession(d Daemon) *Session {
	return &Session{d: d}
}

// Daemon returns the underlying connection.
func (s *Session) Daemon() Daemon {
	return s.d
}

// Boards enumerates attached boards and replaces the snapshot. Handles from
// earlier calls become stale.
func (s *Session) Boards(ctx context.Context) ([]*Board, error) {
	ids, err := s.d.Boards(ctx)
	if err != nil {
		return nil, boardError("boards", "", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.boards = make(map[BoardID]bool, len(ids))
	out := make([]*Board, 0, len(ids))
	for i, id := range ids {
		s.boards[id] = true
		out = append(out, &Board{session: s, gen: s.gen, id: id, index: i})
	}
	return out, nil
}

// Close closes the underlying connection and invalidates every handle.
func (s *Session) Close() error {
	s.mu.Lock()
	s.gen++
	s.boards = nil
	s.mu.Unlock()
	return s.d.Close()
}

func (s *Session) current(b *Board) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return b.gen == s.gen && s.boards[b.id]
}

// Board is a handle to one board from a Session snapshot.
type Board struct {
	session *Session
	gen     uint64
	id      BoardID
	index   int
}

// ID returns the backend identifier.
func (b *Board) ID() BoardID {
	return b.id
}

// Index returns the position of the board in its enumeration.
func (b *Board) Index() int {
	return b.index
}

func (b *Board) check(op string) error {
	if b == nil || b.session == nil || !b.session.current(b) {
		var id BoardID
		if b != nil {
			id = b.id
		}
		return boardError(op, id, UnknownBoard(id))
	}
	return nil
}

// Model returns the board model.
func (b *Board) Model(ctx context.Context) (string, error) {
	if err := b.check("model"); err != nil {
		return "", err
	}
	v, err := b.session.d.Model(ctx, b.id)
	return v, boardError("model", b.id, err)
}

// LayerCount returns the number of backlight layers.
func (b *Board) LayerCount(ctx context.Context) (int, error) {
	if err := b.check("layers"); err != nil {
		return 0, err
	}
	v, err := b.session.d.LayerCount(ctx, b.id)
	return v, boardError("layers", b.id, err)
}

// MaxBrightness returns the upper bound for brightness values.
func (b *Board) MaxBrightness(ctx context.Context) (int, error) {
	if err := b.check("max-brightness"); err != nil {
		return 0, err
	}
	v, err := b.session.d.MaxBrightness(ctx, b.id)
	return v, boardError("max-brightness", b.id, err)
}

// Brightness returns the brightness of layer.
func (b *Board) Brightness(ctx context.Context, layer int) (int, error) {
	if err := b.check("brightness"); err != nil {
		return 0, err
	}
	v, err := b.session.d.Brightness(ctx, b.id, layer)
	return v, boardError("brightness", b.id, err)
}

// SetBrightness sets the brightness of layer. The layer and value are
// checked against the board before the write is sent.
func (b *Board) SetBrightness(ctx context.Context, layer, value int) error {
	const op = "set-brightness"
	if err := b.check(op); err != nil {
		return err
	}

	layers, err := b.session.d.LayerCount(ctx, b.id)
	if err != nil {
		return boardError(op, b.id, err)
	}
	if layer < 0 || layer >= layers {
		return boardError(op, b.id, InvalidLayer(layer, layers))
	}

	maxValue, err := b.session.d.MaxBrightness(ctx, b.id)
	if err != nil {
		return boardError(op, b.id, err)
	}
	if value < 0 || value > maxValue {
		return boardError(op, b.id, InvalidBrightness(value, maxValue))
	}

	return boardError(op, b.id, b.session.d.SetBrightness(ctx, b.id, layer, value))
}

// Color returns the board color.
func (b *Board) Color(ctx context.Context) (Color, error) {
	if err := b.check("color"); err != nil {
		return Color{}, err
	}
	v, err := b.session.d.Color(ctx, b.id)
	return v, boardError("color", b.id, err)
}

// SetColor sets the board color.
func (b *Board) SetColor(ctx context.Context, c Color) error {
	if err := b.check("set-color"); err != nil {
		return err
	}
	return boardError("set-color", b.id, b.session.d.SetColor(ctx, b.id, c))
}
