package rpc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Conn moves whole messages. ReadMessage and WriteMessage may be called
// concurrently with each other but not with themselves.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(msg []byte) error
	Close() error
}

// StreamConn frames messages as newline-delimited JSON over a byte stream.
type StreamConn struct {
	r      *bufio.Reader
	w      io.Writer
	closer io.Closer

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewStreamConn reads messages from r and writes them to w. Close closes c
// when it is not nil.
func NewStreamConn(r io.Reader, w io.Writer, c io.Closer) *StreamConn {
	return &StreamConn{
		r:      bufio.NewReaderSize(r, maxMessageBytes+1),
		w:      w,
		closer: c,
	}
}

// ReadMessage returns the next message without its delimiter.
func (c *StreamConn) ReadMessage() ([]byte, error) {
	raw, err := c.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("%w: message exceeds %d bytes", ErrProtocol, maxMessageBytes)
	}
	if errors.Is(err, io.EOF) && len(raw) > 0 {
		err = nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// WriteMessage writes msg followed by a newline.
func (c *StreamConn) WriteMessage(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	buf := make([]byte, 0, len(msg)+1)
	buf = append(buf, msg...)
	buf = append(buf, '\n')
	_, err := c.w.Write(buf)
	return err
}

// Close closes the underlying stream once.
func (c *StreamConn) Close() error {
	c.closeOnce.Do(func() {
		if c.closer != nil {
			c.closeErr = c.closer.Close()
		}
	})
	return c.closeErr
}

// closers closes several streams, reporting the first failure.
type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
