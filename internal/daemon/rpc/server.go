package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/dshills/keyconfig/internal/daemon"
	"github.com/dshills/keyconfig/internal/logging"
)

// Server answers requests against a Daemon.
type Server struct {
	d   daemon.Daemon
	log *logging.Logger
}

// NewServer creates a server for d. A nil logger uses logging.Default.
func NewServer(d daemon.Daemon, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	return &Server{d: d, log: log.WithComponent("rpc-server")}
}

// Serve handles requests from conn one at a time until the peer disconnects
// or ctx is canceled. A clean disconnect returns nil. Serve closes conn.
func (s *Server) Serve(ctx context.Context, conn Conn) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer conn.Close()

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if errors.Is(err, ErrProtocol) {
				s.log.Warn("dropping connection: %v", err)
			}
			return err
		}

		resp := s.handleRaw(ctx, raw)
		data, err := encodeMessage(resp)
		if err != nil {
			s.log.Error("encode response %s: %v", resp.ID, err)
			data, _ = encodeMessage(Response{ID: resp.ID, Error: toWire(err)})
		}
		if err := conn.WriteMessage(data); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) handleRaw(ctx context.Context, raw []byte) Response {
	req, err := decodeRequest(raw)
	if err != nil {
		// Echo the id when the message is JSON but incomplete.
		var partial struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &partial)
		s.log.Warn("invalid request: %v", err)
		return Response{ID: partial.ID, Error: toWire(err)}
	}
	return s.Handle(ctx, req)
}

// Handle answers a single request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}
	var err error

	switch req.Method {
	case MethodBoards:
		resp.Boards, err = s.d.Boards(ctx)
		if resp.Boards == nil && err == nil {
			resp.Boards = []daemon.BoardID{}
		}
	case MethodModel:
		resp.Text, err = s.d.Model(ctx, req.Board)
	case MethodLayerCount:
		resp.Value, err = s.d.LayerCount(ctx, req.Board)
	case MethodMaxBrightness:
		resp.Value, err = s.d.MaxBrightness(ctx, req.Board)
	case MethodBrightness:
		resp.Value, err = s.d.Brightness(ctx, req.Board, req.Layer)
	case MethodSetBrightness:
		err = s.d.SetBrightness(ctx, req.Board, req.Layer, req.Value)
	case MethodColor:
		var c daemon.Color
		c, err = s.d.Color(ctx, req.Board)
		if err == nil {
			resp.Color = &c
		}
	case MethodSetColor:
		if req.Color == nil {
			err = fmt.Errorf("%w: set-color needs a color", ErrProtocol)
			break
		}
		err = s.d.SetColor(ctx, req.Board, *req.Color)
	default:
		err = fmt.Errorf("%w: unknown method %q", ErrProtocol, req.Method)
	}

	if err != nil {
		s.log.WithField("board", req.Board).Debug("%s failed: %v", req.Method, err)
		return Response{ID: req.ID, Error: toWire(err)}
	}
	return resp
}
