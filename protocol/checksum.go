package protocol

// Checksum computes the single-byte frame checksum: the two's complement
// of the mod-256 sum of the input, so that appending the checksum makes
// the byte sum of the covered fields come out to zero.
//
// The checksum covers type, length, and the unescaped payload. For map
// chunk frames the 4-byte offset is part of the covered bytes.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
