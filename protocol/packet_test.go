package protocol

import (
	"bytes"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{
			name: "no markers",
			data: []byte{0x01, 0x02, 0x03},
			want: []byte{0x01, 0x02, 0x03},
		},
		{
			name: "single marker doubled",
			data: []byte{0x10},
			want: []byte{0x10, 0x10},
		},
		{
			name: "markers mixed with data",
			data: []byte{0x10, 0x41, 0x10},
			want: []byte{0x10, 0x10, 0x41, 0x10, 0x10},
		},
		{
			name: "empty",
			data: nil,
			want: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.data); !bytes.Equal(got, tt.want) {
				t.Errorf("Escape(% X) = % X, want % X", tt.data, got, tt.want)
			}
		})
	}
}

func TestBuildPacket(t *testing.T) {
	tests := []struct {
		name    string
		typ     PacketType
		payload []byte
		want    []byte
	}{
		{
			name:    "product request",
			typ:     TypeProductRequest,
			payload: []byte{0x00, 0x00},
			want:    []byte{0x10, 0xFE, 0x02, 0x00, 0x00, 0x00, 0x10, 0x03},
		},
		{
			name:    "ping command",
			typ:     TypeCommandData,
			payload: []byte{0x3A, 0x00},
			want:    []byte{0x10, 0x0A, 0x02, 0x3A, 0x00, 0xBA, 0x10, 0x03},
		},
		{
			name:    "payload marker stuffed",
			typ:     0x01,
			payload: []byte{0x10},
			// checksum = -(0x01+0x01+0x10) = 0xEE
			want: []byte{0x10, 0x01, 0x01, 0x10, 0x10, 0xEE, 0x10, 0x03},
		},
		{
			name:    "checksum marker stuffed",
			typ:     TypeCommandData,
			payload: []byte{0xE4, 0x00},
			// checksum = -(0x0A+0x02+0xE4) = 0x10, doubled on the wire
			want: []byte{0x10, 0x0A, 0x02, 0xE4, 0x00, 0x10, 0x10, 0x10, 0x03},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPacket(tt.typ, tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("BuildPacket() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestBuildPacketTooLong(t *testing.T) {
	if _, err := BuildPacket(TypeCommandData, make([]byte, MaxPayloadSize+1)); err == nil {
		t.Fatal("expected error for oversized payload, got nil")
	}
}

func TestBuildChunkPacket(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAA}, 10)

	frame, err := BuildChunkPacket(TypeMapChunk, 0, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{
		0x10, 0x24, 0x0E,
		0x00, 0x00, 0x00, 0x00,
		0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
		0x2A,
		0x10, 0x03,
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("BuildChunkPacket() = % X, want % X", frame, want)
	}

	// Declared length counts the offset header on top of the data.
	if frame[2] != byte(len(payload)+ChunkHeaderLen) {
		t.Errorf("declared length = %d, want %d", frame[2], len(payload)+ChunkHeaderLen)
	}

	// Everything between type and trailer must sum to zero with the checksum.
	var sum byte
	for _, b := range frame[1 : len(frame)-2] {
		sum += b
	}
	if sum != 0 {
		t.Errorf("frame byte sum = 0x%02X, want 0x00", sum)
	}
}

func TestBuildChunkPacketOffsetStuffed(t *testing.T) {
	// Offset 0x10 has a DLE inside its little-endian encoding.
	frame, err := BuildChunkPacket(TypeMapChunk, 0x10, []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{
		0x10, 0x24, 0x05,
		0x10, 0x10, 0x00, 0x00, 0x00,
		0x01,
		0xC6,
		0x10, 0x03,
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("BuildChunkPacket() = % X, want % X", frame, want)
	}
}

func TestBuildChunkPacketTooLong(t *testing.T) {
	if _, err := BuildChunkPacket(TypeMapChunk, 0, make([]byte, MaxChunkSize+1)); err == nil {
		t.Fatal("expected error for oversized chunk, got nil")
	}
}

func TestBuildAck(t *testing.T) {
	frame := BuildAck(TypeMapChunk)

	want := []byte{0x10, 0x06, 0x02, 0x24, 0x00, 0xD4, 0x10, 0x03}
	if !bytes.Equal(frame, want) {
		t.Errorf("BuildAck() = % X, want % X", frame, want)
	}
}

// The builders must emit exactly what Checksum computes over the covered
// bytes. The fixtures are chosen DLE-free so the checksum byte sits at a
// fixed position in the frame.
func TestBuildersApplyChecksum(t *testing.T) {
	for _, payload := range [][]byte{
		nil,
		{0x3A, 0x00},
		bytes.Repeat([]byte{0x7F}, MaxPayloadSize),
	} {
		frame, err := BuildPacket(TypeCommandData, payload)
		if err != nil {
			t.Fatalf("BuildPacket(%d bytes): %v", len(payload), err)
		}
		covered := append([]byte{byte(TypeCommandData), byte(len(payload))}, payload...)
		if got, want := frame[len(frame)-3], Checksum(covered); got != want {
			t.Errorf("BuildPacket(%d bytes) checksum = 0x%02X, want 0x%02X", len(payload), got, want)
		}
	}

	data := bytes.Repeat([]byte{0x55}, 10)
	frame, err := BuildChunkPacket(TypeMapChunk, 1, data)
	if err != nil {
		t.Fatalf("BuildChunkPacket: %v", err)
	}
	covered := append([]byte{byte(TypeMapChunk), byte(len(data) + ChunkHeaderLen), 0x01, 0x00, 0x00, 0x00}, data...)
	if got, want := frame[len(frame)-3], Checksum(covered); got != want {
		t.Errorf("BuildChunkPacket checksum = 0x%02X, want 0x%02X", got, want)
	}
}
