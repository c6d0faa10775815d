// Package protocol implements the Garmin serial link wire format used for
// map uploads to eTrex-class handhelds.
//
// # Wire Format
//
// Every message travels as a single frame:
//
//	[DLE][TYPE][LEN][PAYLOAD...][CHECKSUM][DLE][ETX]
//
// Where:
//   - DLE = frame marker (0x10), ETX = end-of-text (0x03)
//   - LEN = unescaped payload length (one byte)
//   - CHECKSUM = two's complement of the byte sum of TYPE, LEN, PAYLOAD
//
// Any DLE occurring inside LEN, PAYLOAD, or CHECKSUM is doubled on the
// wire (byte stuffing) so that receivers can always tell a real frame
// boundary from data.
//
// # Building Frames
//
// Use BuildPacket for plain packets and BuildChunkPacket for map data
// chunks, which prepend a 32-bit offset and use the device's fixed-size
// length accounting:
//
//	frame, err := protocol.BuildPacket(protocol.TypeProductRequest, protocol.CmndNull)
//	frame, err := protocol.BuildChunkPacket(protocol.TypeMapChunk, offset, chunk)
//
// # Reading Frames
//
// ReadFrame consumes one frame from a byte stream, resynchronizing past
// stray bytes and validating stuffing, checksum, and trailer:
//
//	frame, skipped, err := protocol.ReadFrame(port)
//
// Validation failures surface as ErrChecksumMismatch or ErrFraming; both
// are fatal to the session.
//
// This package is pure: it never touches the serial port and has no
// state, which keeps the framing rules testable in isolation.
package protocol
