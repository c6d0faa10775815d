package protocol

import (
	"errors"
	"fmt"
)

// ErrChecksumMismatch indicates that a received frame's checksum byte does
// not match the checksum computed over its type, length, and payload.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrFraming indicates a malformed frame: a bare DLE where data was
// expected, or a missing end-of-message trailer. The link is
// desynchronized and the session cannot continue.
var ErrFraming = errors.New("framing error")

// checksumError builds an ErrChecksumMismatch with the observed values.
func checksumError(got, want byte) error {
	return fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksumMismatch, got, want)
}

// framingError builds an ErrFraming with a detail message.
func framingError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFraming, fmt.Sprintf(format, args...))
}
