package protocol

// Framing bytes per the Garmin serial link protocol.
const (
	// DLE is the frame marker (0x10). It opens every frame and, together
	// with ETX, closes it. A DLE inside frame data is transmitted doubled.
	DLE = 0x10

	// ETX is the end-of-text byte (0x03) that follows the trailing DLE.
	ETX = 0x03
)

// EOM is the two-byte end-of-message trailer.
var EOM = []byte{DLE, ETX}

// PacketType identifies a frame on the wire.
type PacketType byte

// Packet types used during a map upload session.
const (
	// TypeAck acknowledges a previously received packet. Its payload is
	// the acknowledged packet type as a 16-bit little-endian value.
	TypeAck PacketType = 0x06

	// TypeCommandData carries a 16-bit sub-command (see Cmnd* payloads)
	TypeCommandData PacketType = 0x0A

	// TypeSessionStart precedes the transfer-memory command
	TypeSessionStart PacketType = 0x1C

	// TypeMapChunk carries one offset-tagged slice of the map image
	TypeMapChunk PacketType = 0x24

	// TypeSpeedReady is the device response to the speed-test command
	TypeSpeedReady PacketType = 0x26

	// TypeEndTransfer terminates the transfer; the device reboots
	TypeEndTransfer PacketType = 0x2D

	// TypeChangeSpeed requests a new line speed (payload: 32-bit baud)
	TypeChangeSpeed PacketType = 0x30

	// TypeSpeedAccepted reports the speed the device settled on
	TypeSpeedAccepted PacketType = 0x31

	// TypeEraseDone signals that the map memory has been erased
	TypeEraseDone PacketType = 0x4A

	// TypeEraseMap asks the device to erase its map memory
	TypeEraseMap PacketType = 0x4B

	// TypeCapacityData carries the memory capacity response
	TypeCapacityData PacketType = 0x5F

	// TypeProductRequest asks the device to identify itself
	TypeProductRequest PacketType = 0xFE

	// TypeProductData is the device identification response
	TypeProductData PacketType = 0xFF
)

// Sub-command payloads, sent inside TypeCommandData or alongside the
// session packet types above. All are 16-bit little-endian values.
var (
	// CmndNull is the empty argument used by product and session requests
	CmndNull = []byte{0x00, 0x00}

	// CmndTransferMem requests the memory-capacity report
	CmndTransferMem = []byte{0x3F, 0x00}

	// CmndSpeedTest probes whether the device supports renegotiation
	CmndSpeedTest = []byte{0x0E, 0x00}

	// CmndPing resynchronizes the link after a speed change
	CmndPing = []byte{0x3A, 0x00}

	// CmndEraseMap is the erase argument carried by TypeEraseMap
	CmndEraseMap = []byte{0x0A, 0x00}

	// CmndEndTransfer is the argument carried by TypeEndTransfer
	CmndEndTransfer = []byte{0x0A, 0x00}
)

const (
	// MaxChunkSize is the largest map slice the device accepts per frame (0xFA).
	MaxChunkSize = 0xFA

	// ChunkHeaderLen is the size of the offset field prepended to every
	// map chunk. The declared frame length counts it, the payload does not.
	ChunkHeaderLen = 4

	// MaxPayloadSize is the largest payload a plain packet can declare.
	MaxPayloadSize = 0xFF

	// AckPayloadLen is the length of an acknowledgment payload.
	AckPayloadLen = 2
)
