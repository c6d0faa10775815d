package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		typ     PacketType
		payload []byte
	}{
		{
			name:    "empty payload",
			typ:     TypeEraseDone,
			payload: nil,
		},
		{
			name:    "command payload",
			typ:     TypeCommandData,
			payload: []byte{0x3F, 0x00},
		},
		{
			name:    "payload full of markers",
			typ:     0x42,
			payload: []byte{0x10, 0x10, 0x10, 0x10},
		},
		{
			name:    "length byte is the marker",
			typ:     0x01,
			payload: bytes.Repeat([]byte{0x07}, 0x10),
		},
		{
			name:    "max length payload",
			typ:     0x7F,
			payload: bytes.Repeat([]byte{0x10}, MaxPayloadSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := BuildPacket(tt.typ, tt.payload)
			if err != nil {
				t.Fatalf("BuildPacket: %v", err)
			}

			frame, skipped, err := ReadFrame(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("ReadFrame: %v", err)
			}
			if len(skipped) != 0 {
				t.Errorf("skipped = % X, want none", skipped)
			}
			if frame.Type != tt.typ {
				t.Errorf("Type = 0x%02X, want 0x%02X", byte(frame.Type), byte(tt.typ))
			}
			if !bytes.Equal(frame.Payload, tt.payload) {
				t.Errorf("Payload = % X, want % X", frame.Payload, tt.payload)
			}
		})
	}
}

func TestReadFrameChunkRoundTrip(t *testing.T) {
	// 12 data bytes declare length 0x10: the length byte, the offset,
	// and the data all need stuffing at once.
	data := bytes.Repeat([]byte{DLE}, 12)
	raw, err := BuildChunkPacket(TypeMapChunk, 0x10101010, data)
	if err != nil {
		t.Fatalf("BuildChunkPacket: %v", err)
	}

	frame, _, err := ReadFrame(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.Type != TypeMapChunk {
		t.Errorf("Type = 0x%02X, want 0x24", byte(frame.Type))
	}

	want := append([]byte{DLE, DLE, DLE, DLE}, data...)
	if !bytes.Equal(frame.Payload, want) {
		t.Errorf("Payload = % X, want % X", frame.Payload, want)
	}
}

func TestReadFrameResync(t *testing.T) {
	raw, _ := BuildPacket(TypeProductData, []byte{0x01, 0x02})
	stream := append([]byte{0xDE, 0xAD, 0x42}, raw...)

	frame, skipped, err := ReadFrame(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(skipped, []byte{0xDE, 0xAD, 0x42}) {
		t.Errorf("skipped = % X, want DE AD 42", skipped)
	}
	if frame.Type != TypeProductData {
		t.Errorf("Type = 0x%02X, want 0x%02X", byte(frame.Type), byte(TypeProductData))
	}
}

func TestReadFrameStaleTrailer(t *testing.T) {
	// A leftover DLE ETX pair before the real frame is re-read, not an error.
	raw, _ := BuildPacket(TypeSpeedReady, nil)
	stream := append([]byte{DLE, ETX}, raw...)

	frame, _, err := ReadFrame(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.Type != TypeSpeedReady {
		t.Errorf("Type = 0x%02X, want 0x%02X", byte(frame.Type), byte(TypeSpeedReady))
	}
}

func TestReadFrameChecksumMismatch(t *testing.T) {
	raw, _ := BuildPacket(TypeCommandData, []byte{0x3F, 0x00})

	// Corrupt each payload byte in turn without fixing the checksum.
	for i := 3; i < 5; i++ {
		bad := append([]byte(nil), raw...)
		bad[i] ^= 0x01

		_, _, err := ReadFrame(bytes.NewReader(bad))
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("corrupt byte %d: err = %v, want ErrChecksumMismatch", i, err)
		}
	}
}

func TestReadFrameBadTrailer(t *testing.T) {
	raw, _ := BuildPacket(TypeCommandData, []byte{0x3A, 0x00})
	bad := append([]byte(nil), raw...)
	bad[len(bad)-1] = 0x00

	_, _, err := ReadFrame(bytes.NewReader(bad))
	if !errors.Is(err, ErrFraming) {
		t.Errorf("err = %v, want ErrFraming", err)
	}
}

func TestReadFrameBareMarkerInData(t *testing.T) {
	// Declared length 2, but the payload holds a lone DLE followed by a
	// non-DLE byte: the stream is desynchronized.
	stream := []byte{DLE, 0x0A, 0x02, DLE, 0x55, 0x00, DLE, ETX}

	_, _, err := ReadFrame(bytes.NewReader(stream))
	if !errors.Is(err, ErrFraming) {
		t.Errorf("err = %v, want ErrFraming", err)
	}
}

func TestReadFrameTruncated(t *testing.T) {
	raw, _ := BuildPacket(TypeCommandData, []byte{0x3F, 0x00})

	_, _, err := ReadFrame(bytes.NewReader(raw[:4]))
	if err == nil {
		t.Fatal("expected error for truncated stream, got nil")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF-ish", err)
	}
}

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    uint32
		wantErr bool
	}{
		{
			name:    "8 MiB capacity",
			payload: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00},
			want:    8388608,
		},
		{
			name:    "zero capacity decodes to zero",
			payload: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00},
			want:    0,
		},
		{
			name:    "short payload",
			payload: []byte{0x00, 0x00, 0x80},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCapacity(tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseSpeed(t *testing.T) {
	got, err := ParseSpeed([]byte{0x00, 0xC2, 0x01, 0x00})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 115200 {
		t.Errorf("ParseSpeed() = %d, want 115200", got)
	}

	if _, err := ParseSpeed([]byte{0x00}); err == nil {
		t.Error("expected error for short payload, got nil")
	}
}

func TestAckedType(t *testing.T) {
	typ, err := AckedType([]byte{0x24, 0x00})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != TypeMapChunk {
		t.Errorf("AckedType() = 0x%02X, want 0x24", byte(typ))
	}

	if _, err := AckedType([]byte{0x24}); err == nil {
		t.Error("expected error for short payload, got nil")
	}
}
