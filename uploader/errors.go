package uploader

import (
	"fmt"

	"etrexload/protocol"
)

// DeviceNotFoundError indicates that the device on the other end of the
// link did not identify as the expected model.
type DeviceNotFoundError struct {
	// WantID is the identifier substring that was expected
	WantID string

	// Response is the product data payload actually received
	Response []byte
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: product data does not contain %q (is the unit on?)", e.WantID)
}

// CapacityError indicates that the device reported no usable map memory,
// or not enough of it for the image being uploaded.
type CapacityError struct {
	// Capacity is the byte count the device reported
	Capacity uint32

	// Required is the size of the map image, zero when the capacity
	// itself was unusable
	Required int64

	// Err is the capacity payload parse failure, nil when the payload
	// decoded cleanly
	Err error
}

func (e *CapacityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable capacity response: %v", e.Err)
	}
	if e.Capacity == 0 {
		return "device reported zero map memory (try restarting the unit)"
	}
	return fmt.Sprintf("map image of %d bytes exceeds device capacity of %d bytes", e.Required, e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return e.Err
}

// AckMismatchError indicates that the frame read while waiting for an
// acknowledgment was not the acknowledgment of the packet just sent.
type AckMismatchError struct {
	// Want is the packet type an acknowledgment was expected for
	Want protocol.PacketType

	// GotFrame is the type of the frame actually received
	GotFrame protocol.PacketType

	// Acked is the type the acknowledgment payload referred to, when
	// the frame was an acknowledgment at all
	Acked protocol.PacketType
}

func (e *AckMismatchError) Error() string {
	if e.GotFrame != protocol.TypeAck {
		return fmt.Sprintf("expected acknowledgment for type 0x%02X, got frame type 0x%02X",
			byte(e.Want), byte(e.GotFrame))
	}
	return fmt.Sprintf("acknowledgment for type 0x%02X, want 0x%02X", byte(e.Acked), byte(e.Want))
}

// ChunkAckError indicates that a map chunk was not acknowledged. The
// offset identifies the chunk; the device's map memory is left partially
// written and a fresh session is required.
type ChunkAckError struct {
	// Offset is the nominal offset of the unacknowledged chunk
	Offset uint32

	// Err is the underlying acknowledgment or transport failure
	Err error
}

func (e *ChunkAckError) Error() string {
	return fmt.Sprintf("chunk at offset %d not acknowledged: %v", e.Offset, e.Err)
}

func (e *ChunkAckError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates an unexpected response during negotiation or
// the erase sequence.
type ProtocolError struct {
	// Op is the step that failed
	Op string

	// Message describes what went wrong
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
