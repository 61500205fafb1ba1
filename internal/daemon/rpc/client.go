package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/logging"
)

// DefaultTimeout bounds each call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Client is a daemon.Daemon that forwards calls over a Conn.
// It is safe for concurrent use.
type Client struct {
	conn    Conn
	timeout time.Duration
	log     *logging.Logger

	mu      sync.Mutex
	pending map[string]chan Response
	closed  bool
	err     error

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient starts a client reading responses from conn.
func NewClient(conn Conn, opts ...Option) *Client {
	c := &Client{
		conn:    conn,
		timeout: DefaultTimeout,
		log:     logging.Default(),
		pending: make(map[string]chan Response),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("rpc-client")

	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	for {
		raw, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		resp, err := decodeResponse(raw)
		if err != nil {
			c.log.Warn("ignoring response: %v", err)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()

		if !ok {
			c.log.Debug("response for unknown request %q", resp.ID)
			continue
		}
		ch <- resp
	}
}

// fail marks the connection broken and releases every waiting call.
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil {
		if c.closed {
			c.err = fmt.Errorf("%w: connection closed", daemon.ErrTransport)
		} else {
			c.err = fmt.Errorf("%w: %v", daemon.ErrTransport, err)
			c.log.Warn("connection lost: %v", err)
		}
	}
	c.closed = true
	c.pending = make(map[string]chan Response)
	close(c.done)
}

func (c *Client) call(ctx context.Context, req Request) (Response, error) {
	req.ID = uuid.NewString()
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.closed {
		err := c.err
		c.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("%w: connection closed", daemon.ErrTransport)
		}
		return Response{}, err
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()

	data, err := encodeMessage(req)
	if err != nil {
		c.forget(req.ID)
		return Response{}, fmt.Errorf("%w: %s: %w", daemon.ErrTransport, req.Method, err)
	}
	if err := c.conn.WriteMessage(data); err != nil {
		c.forget(req.ID)
		return Response{}, fmt.Errorf("%w: %s: %v", daemon.ErrTransport, req.Method, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return Response{}, resp.Error.Err()
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(req.ID)
		return Response{}, fmt.Errorf("%w: %s: %v", daemon.ErrTransport, req.Method, ctx.Err())
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return Response{}, err
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) Boards(ctx context.Context) ([]daemon.BoardID, error) {
	resp, err := c.call(ctx, Request{Method: MethodBoards})
	return resp.Boards, err
}

func (c *Client) Model(ctx context.Context, id daemon.BoardID) (string, error) {
	resp, err := c.call(ctx, Request{Method: MethodModel, Board: id})
	return resp.Text, err
}

func (c *Client) LayerCount(ctx context.Context, id daemon.BoardID) (int, error) {
	resp, err := c.call(ctx, Request{Method: MethodLayerCount, Board: id})
	return resp.Value, err
}

func (c *Client) MaxBrightness(ctx context.Context, id daemon.BoardID) (int, error) {
	resp, err := c.call(ctx, Request{Method: MethodMaxBrightness, Board: id})
	return resp.Value, err
}

func (c *Client) Brightness(ctx context.Context, id daemon.BoardID, layer int) (int, error) {
	resp, err := c.call(ctx, Request{Method: MethodBrightness, Board: id, Layer: layer})
	return resp.Value, err
}

func (c *Client) SetBrightness(ctx context.Context, id daemon.BoardID, layer, value int) error {
	_, err := c.call(ctx, Request{Method: MethodSetBrightness, Board: id, Layer: layer, Value: value})
	return err
}

func (c *Client) Color(ctx context.Context, id daemon.BoardID) (daemon.Color, error) {
	resp, err := c.call(ctx, Request{Method: MethodColor, Board: id})
	if err != nil {
		return daemon.Color{}, err
	}
	if resp.Color == nil {
		return daemon.Color{}, protocolError("color response without color")
	}
	return *resp.Color, nil
}

func (c *Client) SetColor(ctx context.Context, id daemon.BoardID, col daemon.Color) error {
	_, err := c.call(ctx, Request{Method: MethodSetColor, Board: id, Color: &col})
	return err
}

// Close closes the connection and waits for the reader to stop.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	<-c.done
	return c.closeErr
}
