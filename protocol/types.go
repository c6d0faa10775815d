package protocol

import "fmt"

// Frame is one decoded protocol message: a packet type and its unescaped
// payload. The framing bytes and checksum are consumed and validated by
// ReadFrame and never appear here.
type Frame struct {
	// Type is the packet type byte
	Type PacketType

	// Payload is the unescaped payload, exactly as long as the frame's
	// declared length byte
	Payload []byte
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame{type=0x%02X len=%d}", byte(f.Type), len(f.Payload))
}
