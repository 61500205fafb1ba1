package daemon

import (
	"errors"
	"fmt"
)

// Daemon errors.
var (
	// ErrDaemonUnavailable indicates no control channel could be established.
	ErrDaemonUnavailable = errors.New("daemon unavailable")

	// ErrUnknownBoard indicates a stale or unknown board handle.
	ErrUnknownBoard = errors.New("unknown board")

	// ErrInvalidRange indicates a brightness or layer outside the board's range.
	ErrInvalidRange = errors.New("value out of range")

	// ErrTransport indicates the control channel failed mid-operation.
	ErrTransport = errors.New("transport error")

	// ErrInvalidColor indicates a color that is not six hex digits.
	ErrInvalidColor = errors.New("invalid color")
)

// BoardError records a failed operation on one board.
type BoardError struct {
	Op    string  // Operation name (e.g., "brightness", "set-color")
	Board BoardID // Board the operation addressed
	Err   error   // Underlying error
}

func (e *BoardError) Error() string {
	if e == nil {
		return ""
	}
	if e.Board == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Board, e.Err)
}

func (e *BoardError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for BoardError.
// Matches both the wrapper itself and the wrapped error.
func (e *BoardError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*BoardError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

func boardError(op string, id BoardID, err error) error {
	if err == nil {
		return nil
	}
	var be *BoardError
	if errors.As(err, &be) {
		return err
	}
	return &BoardError{Op: op, Board: id, Err: err}
}

// Transport wraps err as an ErrTransport failure. Errors that already carry
// one of the daemon error kinds are returned unchanged.
func Transport(err error) error {
	if err == nil {
		return nil
	}
	if HasKind(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// HasKind returns true if err matches one of the daemon error kinds.
func HasKind(err error) bool {
	for _, kind := range Kinds() {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Kinds returns the daemon error kinds.
func Kinds() []error {
	return []error{ErrDaemonUnavailable, ErrUnknownBoard, ErrInvalidRange, ErrTransport, ErrInvalidColor}
}
