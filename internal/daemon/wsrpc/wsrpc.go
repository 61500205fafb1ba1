// Package wsrpc carries the rpc protocol over WebSocket text frames.
//
// A Hub serves a daemon.Daemon to any number of clients at /ws; each
// connection is handled by its own rpc.Server loop. Dial connects to a hub
// and returns an rpc.Client, which satisfies daemon.Daemon.
package wsrpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/daemon/rpc"
	"github.com/dshills/keyconfig/internal/logging"
)

// Path is the HTTP path of the WebSocket endpoint.
const Path = "/ws"

const (
	// writeDeadline bounds a single frame write.
	writeDeadline = 5 * time.Second

	// readDeadline is reset by every pong; three missed pings drop the peer.
	readDeadline = 90 * time.Second

	pingInterval = 30 * time.Second

	maxReadMessageSize = 64 * 1024
)

var wsUpgrader = websocket.Upgrader{
	// The hub binds to loopback by default; browsers are not expected clients.
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// conn adapts a websocket connection to rpc.Conn.
type conn struct {
	ws *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newConn(ws *websocket.Conn) *conn {
	ws.SetReadLimit(maxReadMessageSize)
	return &conn{ws: ws}
}

// ReadMessage returns the next text frame, skipping other frame types.
func (c *conn) ReadMessage() ([]byte, error) {
	for {
		msgType, msg, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return msg, nil
		}
	}
}

// WriteMessage writes msg as one text frame.
func (c *conn) WriteMessage(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	err := c.ws.WriteMessage(websocket.TextMessage, msg)
	_ = c.ws.SetWriteDeadline(time.Time{})
	return err
}

func (c *conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
}

// Close sends a close frame and closes the connection once.
func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

// HubOptions configures a Hub.
type HubOptions struct {
	// Addr is the listen address. Use "127.0.0.1:0" for an OS-assigned port.
	Addr string

	// Logger receives connection events. Defaults to logging.Default.
	Logger *logging.Logger
}

// Hub serves a daemon over WebSocket.
type Hub struct {
	opts HubOptions
	srv  *rpc.Server
	log  *logging.Logger

	mu    sync.Mutex
	conns map[*conn]struct{}

	listener net.Listener
	server   *http.Server
	url      string

	closeOnce sync.Once
}

// NewHub creates a hub serving d. The hub does not listen until Start.
func NewHub(d daemon.Daemon, opts HubOptions) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Hub{
		opts:  opts,
		srv:   rpc.NewServer(d, opts.Logger),
		log:   opts.Logger.WithComponent("wsrpc"),
		conns: make(map[*conn]struct{}),
	}
}

// Start listens on the configured address and serves in the background.
// Canceling ctx cancels active request handlers; Stop shuts the server down.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("wsrpc: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wsrpc: listen: %w", err)
	}
	h.listener = ln
	h.url = fmt.Sprintf("ws://%s%s", ln.Addr().String(), Path)

	mux := http.NewServeMux()
	mux.Handle(Path, h)

	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			h.log.Error("server error: %v", serveErr)
		}
	}()

	h.log.Info("listening on %s", h.url)
	return nil
}

// URL returns the WebSocket URL, or "" before Start.
func (h *Hub) URL() string {
	return h.url
}

// Connections returns the number of connected clients.
func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Stop closes every connection and shuts down the HTTP server.
// It is safe to call more than once.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		conns := make([]*conn, 0, len(h.conns))
		for c := range h.conns {
			conns = append(conns, c)
		}
		h.mu.Unlock()

		for _, c := range conns {
			_ = c.Close()
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("wsrpc: shutdown: %w", err)
			}
		}
		h.log.Info("stopped")
	})
	return stopErr
}

// ServeHTTP upgrades the request and serves rpc on the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed: %v", err)
		return
	}
	c := newConn(ws)

	if err := ws.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		_ = c.Close()
		return
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readDeadline))
	})

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	log := h.log.WithField("remote", ws.RemoteAddr())
	log.Debug("client connected")

	pingDone := make(chan struct{})
	go pingLoop(c, pingDone, log)

	defer func() {
		close(pingDone)
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		log.Debug("client disconnected")
	}()

	if err := h.srv.Serve(r.Context(), c); err != nil &&
		websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Warn("read error: %v", err)
	}
}

func pingLoop(c *conn, done <-chan struct{}, log *logging.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				log.Debug("ping failed: %v", err)
				_ = c.Close()
				return
			}
		}
	}
}

// Dial connects to a hub at url. A hub that cannot be reached is reported
// as daemon.ErrDaemonUnavailable.
func Dial(ctx context.Context, url string, opts ...rpc.Option) (*rpc.Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", daemon.ErrDaemonUnavailable, url, err)
	}
	return rpc.NewClient(newConn(ws), opts...), nil
}
