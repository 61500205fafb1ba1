// Package daemon defines the boundary to the process that controls keyboard
// backlight hardware.
//
// A Daemon is one control channel. It is addressed by BoardID and validates
// every request itself. Callers normally go through a Session, which owns the
// Daemon, keeps the snapshot of boards from the last enumeration and hands out
// Board handles bound to that snapshot:
//
//	s := daemon.NewSession(backend)
//	defer s.Close()
//
//	boards, err := s.Boards(ctx)
//	if err != nil {
//	    // ErrDaemonUnavailable: report and disable backlight controls
//	}
//	for _, b := range boards {
//	    max, _ := b.MaxBrightness(ctx)
//	    _ = b.SetBrightness(ctx, 0, max/2)
//	}
//
// Calling Boards again replaces the snapshot; handles from an earlier call
// fail with ErrUnknownBoard.
//
// # Errors
//
// Every failure matches one of ErrDaemonUnavailable, ErrUnknownBoard,
// ErrInvalidRange or ErrTransport under errors.Is. Nothing here retries. A
// failed set leaves the hardware state unknown and the caller re-reads before
// trying again. Hardware changes made by other programs are only seen by
// reading again; there is no push channel.
//
// # Backends
//
// None reports that no hardware is present. Memory is an in-process fake.
// The sysfs, rpc and wsrpc subpackages provide the hardware backend and the
// helper-process transports.
package daemon
