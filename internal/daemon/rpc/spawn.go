package rpc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/dshills/keyconfig/internal/daemon"
)

// helperExitTimeout is how long Close waits for the helper to exit after its
// stdin is closed.
var helperExitTimeout = 2 * time.Second

// Spawn starts the helper argv and returns a client talking to it over the
// helper's stdin and stdout. The helper's stderr is passed through. Close
// ends the helper by closing its stdin.
//
// A helper that cannot be started is reported as ErrDaemonUnavailable.
func Spawn(argv []string, opts ...Option) (*Client, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no helper command", daemon.ErrDaemonUnavailable)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", daemon.ErrDaemonUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", daemon.ErrDaemonUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", daemon.ErrDaemonUnavailable, argv[0], err)
	}

	helper := &helperProcess{cmd: cmd, stdout: stdout}
	c := NewClient(NewStreamConn(stdout, stdin, closers{stdin, helper}), opts...)
	helper.drained = c.done
	return c, nil
}

// helperProcess waits for the helper to exit, killing it if it lingers.
// Wait is only called once the client has stopped reading stdout.
type helperProcess struct {
	cmd    *exec.Cmd
	stdout io.Closer
	// drained is closed when the client's read loop has returned.
	drained <-chan struct{}
}

func (h *helperProcess) Close() error {
	killed := false
	select {
	case <-h.drained:
	case <-time.After(helperExitTimeout):
		_ = h.cmd.Process.Kill()
		killed = true
		// A child of the helper may still hold stdout open.
		_ = h.stdout.Close()
		<-h.drained
	}

	err := h.cmd.Wait()
	if killed {
		return fmt.Errorf("helper %s did not exit, killed", h.cmd.Path)
	}
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}
