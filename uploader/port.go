package uploader

import (
	"errors"
	"io"
	"time"
)

// ErrReadTimeout is returned by a Port's Read when the configured read
// timeout elapses before any byte arrives. During the erase wait it is
// the expected idle condition and is polled through; anywhere else it is
// fatal to the session.
var ErrReadTimeout = errors.New("read timeout")

// Port is the byte-oriented link the uploader drives. It is a single
// exclusively-owned resource: nothing else may touch it for the lifetime
// of a session.
//
// The serial implementation lives in the link package; tests substitute
// an in-memory script.
type Port interface {
	io.ReadWriter

	// SetBaudRate reconfigures the line speed of the open connection.
	// Invoked once, after the device has agreed to the new speed.
	SetBaudRate(baud int) error

	// SetReadTimeout changes how long a Read blocks waiting for the
	// first byte. Per-phase configuration, not per-call.
	SetReadTimeout(d time.Duration) error

	// Drain discards any bytes already buffered on the receive side.
	Drain() error
}
