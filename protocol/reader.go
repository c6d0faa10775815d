package protocol

import (
	"fmt"
	"io"
)

// ReadFrame consumes one complete frame from r and returns it along with
// any stray bytes skipped while hunting for the start marker.
//
// Skipping is the resynchronization policy, not an error: after a speed
// change or a device-side hiccup the stream may carry garbage before the
// next DLE. Callers are expected to log the skipped bytes and move on.
//
// If the byte after the start marker is ETX, the pair was a stale
// end-of-message trailer; the real start marker and type are re-read.
// The length byte, payload, and checksum arrive DLE-stuffed and are
// unescaped here. The checksum is validated over TYPE, LEN, and the
// unescaped payload, and the frame must close with DLE ETX.
func ReadFrame(r io.Reader) (*Frame, []byte, error) {
	var skipped []byte
	b, err := readByte(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read start marker: %w", err)
	}
	for b != DLE {
		skipped = append(skipped, b)
		if b, err = readByte(r); err != nil {
			return nil, skipped, fmt.Errorf("read start marker: %w", err)
		}
	}

	tp, err := readByte(r)
	if err != nil {
		return nil, skipped, fmt.Errorf("read packet type: %w", err)
	}
	if tp == ETX {
		// Stale EOM trailer; the real frame starts right behind it.
		if b, err = readByte(r); err != nil {
			return nil, skipped, fmt.Errorf("read start marker: %w", err)
		}
		if b != DLE {
			return nil, skipped, framingError("expected DLE after end-of-message, got 0x%02X", b)
		}
		if tp, err = readByte(r); err != nil {
			return nil, skipped, fmt.Errorf("read packet type: %w", err)
		}
	}

	ld, err := readEscaped(r)
	if err != nil {
		return nil, skipped, fmt.Errorf("read length: %w", err)
	}

	payload := make([]byte, ld)
	for i := range payload {
		if payload[i], err = readEscaped(r); err != nil {
			return nil, skipped, fmt.Errorf("read payload byte %d: %w", i, err)
		}
	}

	ck, err := readEscaped(r)
	if err != nil {
		return nil, skipped, fmt.Errorf("read checksum: %w", err)
	}

	covered := append([]byte{tp, ld}, payload...)
	if want := Checksum(covered); ck != want {
		return nil, skipped, checksumError(ck, want)
	}

	eom := make([]byte, 2)
	if _, err = io.ReadFull(r, eom); err != nil {
		return nil, skipped, fmt.Errorf("read end-of-message: %w", err)
	}
	if eom[0] != DLE || eom[1] != ETX {
		return nil, skipped, framingError("bad end-of-message 0x%02X 0x%02X", eom[0], eom[1])
	}

	return &Frame{Type: PacketType(tp), Payload: payload}, skipped, nil
}

// readEscaped reads one data byte, collapsing a doubled DLE back to one.
// A DLE followed by anything other than a second DLE means the stream is
// desynchronized where data was expected.
func readEscaped(r io.Reader) (byte, error) {
	b, err := readByte(r)
	if err != nil {
		return 0, err
	}
	if b != DLE {
		return b, nil
	}
	next, err := readByte(r)
	if err != nil {
		return 0, err
	}
	if next != DLE {
		return 0, framingError("bare DLE in data, followed by 0x%02X", next)
	}
	return DLE, nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
