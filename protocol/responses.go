package protocol

import (
	"encoding/binary"
	"fmt"
)

// CapacityOffset is where the 32-bit byte count sits inside the capacity
// response payload.
const CapacityOffset = 4

// ParseCapacity extracts the device memory capacity in bytes from a
// capacity response payload. The value is a 32-bit little-endian count at
// bytes [4:8].
func ParseCapacity(payload []byte) (uint32, error) {
	if len(payload) < CapacityOffset+4 {
		return 0, fmt.Errorf("capacity payload too short: got %d bytes, need %d", len(payload), CapacityOffset+4)
	}
	return binary.LittleEndian.Uint32(payload[CapacityOffset : CapacityOffset+4]), nil
}

// ParseSpeed extracts the accepted line speed from a speed response
// payload (32-bit little-endian baud rate).
func ParseSpeed(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("speed payload too short: got %d bytes, need 4", len(payload))
	}
	return binary.LittleEndian.Uint32(payload[:4]), nil
}

// AckedType extracts the packet type an acknowledgment payload refers to.
func AckedType(payload []byte) (PacketType, error) {
	if len(payload) < AckPayloadLen {
		return 0, fmt.Errorf("ack payload too short: got %d bytes, need %d", len(payload), AckPayloadLen)
	}
	return PacketType(binary.LittleEndian.Uint16(payload[:AckPayloadLen])), nil
}

// SpeedPayload encodes a desired baud rate for a change-speed packet.
func SpeedPayload(baud uint32) []byte {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, baud)
	return payload
}
