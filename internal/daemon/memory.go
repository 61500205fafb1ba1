package daemon

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBoard describes a board served by Memory.
type MemoryBoard struct {
	ID            BoardID
	Model         string
	MaxBrightness int
	// Brightness holds one value per layer. Its length is the layer count.
	Brightness []int
	Color      Color
}

// Memory is an in-process Daemon holding board state in memory.
// It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	boards   []*MemoryBoard
	failNext error
	closed   bool
}

// NewMemory creates a Memory serving boards. Boards without an ID are
// assigned "mem<N>"; boards without layers get one.
func NewMemory(boards ...MemoryBoard) *Memory {
	m := &Memory{}
	for _, b := range boards {
		m.Add(b)
	}
	return m
}

// Add attaches a board and returns its id.
func (m *Memory) Add(b MemoryBoard) BoardID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == "" {
		b.ID = BoardID(fmt.Sprintf("mem%d", len(m.boards)))
	}
	if len(b.Brightness) == 0 {
		b.Brightness = []int{0}
	} else {
		b.Brightness = append([]int(nil), b.Brightness...)
	}
	m.boards = append(m.boards, &b)
	return b.ID
}

// Remove detaches a board.
func (m *Memory) Remove(id BoardID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, b := range m.boards {
		if b.ID == id {
			m.boards = append(m.boards[:i], m.boards[i+1:]...)
			return
		}
	}
}

// FailNext makes the next call fail with err. Errors that are not already a
// daemon error kind are reported as ErrTransport.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	m.failNext = Transport(err)
	m.mu.Unlock()
}

// Snapshot returns a copy of the state of board id.
func (m *Memory) Snapshot(id BoardID) (MemoryBoard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.boards {
		if b.ID == id {
			out := *b
			out.Brightness = append([]int(nil), b.Brightness...)
			return out, true
		}
	}
	return MemoryBoard{}, false
}

// board returns the board for id with the lock held.
func (m *Memory) board(id BoardID) (*MemoryBoard, error) {
	if m.closed {
		return nil, fmt.Errorf("%w: connection closed", ErrTransport)
	}
	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, err
	}
	for _, b := range m.boards {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, UnknownBoard(id)
}

func (m *Memory) Boards(context.Context) ([]BoardID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("%w: connection closed", ErrDaemonUnavailable)
	}
	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, err
	}
	ids := make([]BoardID, len(m.boards))
	for i, b := range m.boards {
		ids[i] = b.ID
	}
	return ids, nil
}

func (m *Memory) Model(_ context.Context, id BoardID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return "", err
	}
	return b.Model, nil
}

func (m *Memory) LayerCount(_ context.Context, id BoardID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return 0, err
	}
	return len(b.Brightness), nil
}

func (m *Memory) MaxBrightness(_ context.Context, id BoardID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return 0, err
	}
	return b.MaxBrightness, nil
}

func (m *Memory) Brightness(_ context.Context, id BoardID, layer int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return 0, err
	}
	if layer < 0 || layer >= len(b.Brightness) {
		return 0, InvalidLayer(layer, len(b.Brightness))
	}
	return b.Brightness[layer], nil
}

func (m *Memory) SetBrightness(_ context.Context, id BoardID, layer, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return err
	}
	if layer < 0 || layer >= len(b.Brightness) {
		return InvalidLayer(layer, len(b.Brightness))
	}
	if value < 0 || value > b.MaxBrightness {
		return InvalidBrightness(value, b.MaxBrightness)
	}
	b.Brightness[layer] = value
	return nil
}

func (m *Memory) Color(_ context.Context, id BoardID) (Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return Color{}, err
	}
	return b.Color, nil
}

func (m *Memory) SetColor(_ context.Context, id BoardID, c Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.board(id)
	if err != nil {
		return err
	}
	b.Color = c
	return nil
}

// Close marks the connection closed. Later calls fail.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
