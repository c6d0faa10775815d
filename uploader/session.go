package uploader

import (
	"fmt"

	"etrexload/protocol"
)

// writeFrame writes one encoded frame to the port.
func (u *Uploader) writeFrame(frame []byte) error {
	if _, err := u.port.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// sendPacket encodes and writes a plain packet and, unless suppressed,
// blocks for its acknowledgment. Every non-chunk send in the session
// goes through here.
func (u *Uploader) sendPacket(typ protocol.PacketType, payload []byte, wantAck bool) error {
	frame, err := protocol.BuildPacket(typ, payload)
	if err != nil {
		return err
	}
	u.logDebug("send packet", "type", fmt.Sprintf("0x%02X", byte(typ)), "len", len(payload))
	if err := u.writeFrame(frame); err != nil {
		return err
	}
	if !wantAck {
		return nil
	}
	return u.readAck(typ)
}

// readPacket parses one frame from the port and, if autoAck is set,
// immediately acknowledges it. Stray bytes skipped during
// resynchronization are logged, not treated as errors.
func (u *Uploader) readPacket(autoAck bool) (*protocol.Frame, error) {
	frame, skipped, err := protocol.ReadFrame(u.port)
	if len(skipped) > 0 {
		u.logDebug("resynchronized", "skipped", fmt.Sprintf("% X", skipped))
	}
	if err != nil {
		return nil, err
	}
	u.logDebug("received packet", "type", fmt.Sprintf("0x%02X", byte(frame.Type)), "len", len(frame.Payload))

	if autoAck {
		if err := u.writeFrame(protocol.BuildAck(frame.Type)); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// readAck blocks for the acknowledgment of a packet of the given type.
// The acknowledgment itself is never acknowledged back.
func (u *Uploader) readAck(want protocol.PacketType) error {
	frame, err := u.readPacket(false)
	if err != nil {
		return fmt.Errorf("read acknowledgment: %w", err)
	}
	if frame.Type != protocol.TypeAck {
		return &AckMismatchError{Want: want, GotFrame: frame.Type}
	}
	acked, err := protocol.AckedType(frame.Payload)
	if err != nil {
		return fmt.Errorf("read acknowledgment: %w", err)
	}
	if acked != want {
		return &AckMismatchError{Want: want, GotFrame: frame.Type, Acked: acked}
	}
	return nil
}
