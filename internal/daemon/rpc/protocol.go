// Package rpc carries the daemon.Daemon contract between processes.
//
// Requests and responses are JSON objects, one per message. A Conn moves
// whole messages; StreamConn frames them as newline-delimited JSON so the
// protocol runs over pipes and a helper process's stdin and stdout.
// The wsrpc package carries the same messages over WebSocket.
//
// Every request carries a UUID that its response echoes, so a Client may have
// several calls in flight. Error kinds from the daemon package survive the
// wire: a server-side ErrUnknownBoard is an ErrUnknownBoard for the caller.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/keyconfig/internal/daemon"
)

// Protocol methods.
const (
	MethodBoards        = "boards"
	MethodModel         = "model"
	MethodLayerCount    = "layer-count"
	MethodMaxBrightness = "max-brightness"
	MethodBrightness    = "brightness"
	MethodSetBrightness = "set-brightness"
	MethodColor         = "color"
	MethodSetColor      = "set-color"
)

// maxMessageBytes bounds a single encoded message.
const maxMessageBytes = 64 * 1024

// ErrProtocol indicates a malformed message.
var ErrProtocol = errors.New("protocol error")

// Request is one daemon call.
type Request struct {
	ID     string         `json:"id"`
	Method string         `json:"method"`
	Board  daemon.BoardID `json:"board,omitempty"`
	Layer  int            `json:"layer,omitempty"`
	Value  int            `json:"value,omitempty"`
	Color  *daemon.Color  `json:"color,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID     string           `json:"id"`
	Boards []daemon.BoardID `json:"boards,omitempty"`
	Text   string           `json:"text,omitempty"`
	Value  int              `json:"value,omitempty"`
	Color  *daemon.Color    `json:"color,omitempty"`
	Error  *Error           `json:"error,omitempty"`
}

// Error is an error crossing the wire.
type Error struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Error kinds on the wire.
const (
	kindUnavailable  = "unavailable"
	kindUnknownBoard = "unknown-board"
	kindInvalidRange = "invalid-range"
	kindTransport    = "transport"
	kindInvalidColor = "invalid-color"
	kindProtocol     = "protocol"
)

var kinds = []struct {
	name string
	err  error
}{
	{kindUnavailable, daemon.ErrDaemonUnavailable},
	{kindUnknownBoard, daemon.ErrUnknownBoard},
	{kindInvalidRange, daemon.ErrInvalidRange},
	{kindProtocol, ErrProtocol},
	{kindTransport, daemon.ErrTransport},
	{kindInvalidColor, daemon.ErrInvalidColor},
}

// toWire converts an error for a Response.
func toWire(err error) *Error {
	if err == nil {
		return nil
	}
	e := &Error{Message: err.Error()}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			e.Kind = k.name
			break
		}
	}
	return e
}

// Err returns the error carried by e, matching its original kind under
// errors.Is. Unknown kinds are reported as transport errors, and protocol
// errors match both ErrProtocol and daemon.ErrTransport.
func (e *Error) Err() error {
	if e == nil {
		return nil
	}
	for _, k := range kinds {
		if e.Kind != k.name {
			continue
		}
		if k.err == ErrProtocol {
			return &remoteError{kinds: []error{ErrProtocol, daemon.ErrTransport}, msg: e.Message}
		}
		return &remoteError{kinds: []error{k.err}, msg: e.Message}
	}
	return &remoteError{kinds: []error{daemon.ErrTransport}, msg: e.Message}
}

// protocolError reports a malformed exchange as both daemon.ErrTransport and
// ErrProtocol.
func protocolError(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", daemon.ErrTransport, ErrProtocol, fmt.Sprintf(format, args...))
}

// remoteError is an error reported by the other end.
type remoteError struct {
	kinds []error
	msg   string
}

func (e *remoteError) Error() string {
	return e.msg
}

func (e *remoteError) Unwrap() []error {
	return e.kinds
}

func encodeMessage(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(data) > maxMessageBytes {
		return nil, fmt.Errorf("%w: message exceeds %d bytes", ErrProtocol, maxMessageBytes)
	}
	return data, nil
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if req.ID == "" || req.Method == "" {
		return Request{}, fmt.Errorf("%w: request needs id and method", ErrProtocol)
	}
	return req, nil
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return resp, nil
}
