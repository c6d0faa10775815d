package protocol

import (
	"encoding/binary"
	"fmt"
)

// Escape doubles every DLE occurrence so that receivers can tell stuffed
// data bytes from real frame markers. Returns a new slice; the input is
// not modified.
func Escape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		out = append(out, b)
		if b == DLE {
			out = append(out, DLE)
		}
	}
	return out
}

// BuildPacket constructs a complete frame ready to write to the link.
//
// Frame structure:
//
//	[DLE][TYPE][LEN][PAYLOAD...][CHECKSUM][DLE][ETX]
//
// The length, payload, and checksum bytes are DLE-stuffed on the wire;
// LEN counts the unescaped payload. The checksum covers TYPE, LEN, and
// the unescaped payload.
func BuildPacket(typ PacketType, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload length %d exceeds maximum %d bytes", len(payload), MaxPayloadSize)
	}

	covered := make([]byte, 0, len(payload)+2)
	covered = append(covered, byte(typ), byte(len(payload)))
	covered = append(covered, payload...)

	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, DLE)
	frame = append(frame, byte(typ))
	frame = append(frame, Escape([]byte{byte(len(payload))})...)
	frame = append(frame, Escape(payload)...)
	frame = append(frame, Escape([]byte{Checksum(covered)})...)
	frame = append(frame, EOM...)
	return frame, nil
}

// BuildChunkPacket constructs a map-chunk frame: the payload is the 32-bit
// little-endian offset followed by up to MaxChunkSize raw map bytes.
//
// The declared length is min(len(data), MaxChunkSize) + ChunkHeaderLen,
// matching the device's fixed-size chunk bookkeeping. The offset and data
// are stuffed independently, and the checksum covers the unescaped
// TYPE, LEN, OFFSET, and DATA bytes.
func BuildChunkPacket(typ PacketType, offset uint32, data []byte) ([]byte, error) {
	if len(data) > MaxChunkSize {
		return nil, fmt.Errorf("chunk length %d exceeds maximum %d bytes", len(data), MaxChunkSize)
	}

	ld := byte(len(data) + ChunkHeaderLen)
	off := make([]byte, ChunkHeaderLen)
	binary.LittleEndian.PutUint32(off, offset)

	frame := make([]byte, 0, len(data)+ChunkHeaderLen+8)
	frame = append(frame, DLE)
	frame = append(frame, byte(typ))
	frame = append(frame, Escape([]byte{ld})...)
	frame = append(frame, Escape(off)...)
	frame = append(frame, Escape(data)...)

	covered := make([]byte, 0, len(data)+ChunkHeaderLen+2)
	covered = append(covered, byte(typ), ld)
	covered = append(covered, off...)
	covered = append(covered, data...)
	frame = append(frame, Escape([]byte{Checksum(covered)})...)

	frame = append(frame, EOM...)
	return frame, nil
}

// BuildAck constructs an acknowledgment frame for the given packet type.
// The payload is the acknowledged type as a 16-bit little-endian value.
func BuildAck(acked PacketType) []byte {
	payload := make([]byte, AckPayloadLen)
	binary.LittleEndian.PutUint16(payload, uint16(acked))
	frame, _ := BuildPacket(TypeAck, payload)
	return frame
}
