package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"etrexload/protocol"
)

// eraseMaps asks the device to erase its map memory and waits for the
// erase-complete signal. The device streams status frames while it
// works; each is acknowledged and discarded. The protocol itself puts no
// bound on the wait, so an overall deadline is applied here.
func (u *Uploader) eraseMaps(ctx context.Context) error {
	if err := u.port.SetReadTimeout(u.config.EraseTimeout); err != nil {
		return fmt.Errorf("set erase timeout: %w", err)
	}
	if err := u.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}

	if err := u.sendPacket(protocol.TypeEraseMap, protocol.CmndEraseMap, false); err != nil {
		return fmt.Errorf("erase command: %w", err)
	}

	deadline := time.Now().Add(u.config.EraseDeadline)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
		if time.Now().After(deadline) {
			return &ProtocolError{
				Op:      "erase",
				Message: fmt.Sprintf("no erase-complete signal within %s", u.config.EraseDeadline),
			}
		}

		frame, err := u.readPacket(true)
		if errors.Is(err, ErrReadTimeout) {
			// Device still erasing; keep polling until the deadline.
			continue
		}
		if err != nil {
			return fmt.Errorf("erase wait: %w", err)
		}
		if frame.Type == protocol.TypeEraseDone {
			return nil
		}
		u.logDebug("discarding frame during erase", "type", fmt.Sprintf("0x%02X", byte(frame.Type)))
	}
}

// sendChunks streams the map image as offset-tagged chunks of up to
// MaxChunkSize bytes, each acknowledged before the next is sent. The
// offset cursor advances by the nominal chunk size regardless of the
// final chunk's true length, matching the device's bookkeeping. Returns
// the final nominal offset.
func (u *Uploader) sendChunks(ctx context.Context, src io.Reader, total int64) (int64, error) {
	if err := u.port.SetReadTimeout(u.config.ChunkTimeout); err != nil {
		return 0, fmt.Errorf("set chunk timeout: %w", err)
	}
	if err := u.port.Drain(); err != nil {
		return 0, fmt.Errorf("drain: %w", err)
	}

	var offset uint32
	buf := make([]byte, protocol.MaxChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return int64(offset), fmt.Errorf("cancelled: %w", err)
		}

		n, err := io.ReadFull(src, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return int64(offset), fmt.Errorf("read map image: %w", err)
		}
		if n == 0 {
			break
		}
		last := n < len(buf) // short read means the image is exhausted

		frame, err := protocol.BuildChunkPacket(protocol.TypeMapChunk, offset, buf[:n])
		if err != nil {
			return int64(offset), err
		}
		if err := u.writeFrame(frame); err != nil {
			return int64(offset), &ChunkAckError{Offset: offset, Err: err}
		}
		if err := u.readAck(protocol.TypeMapChunk); err != nil {
			return int64(offset), &ChunkAckError{Offset: offset, Err: err}
		}

		offset += protocol.MaxChunkSize
		u.reportProgress(PhaseTransfer, int64(offset), total)

		if last {
			break
		}
	}
	return int64(offset), nil
}

// terminate sends the end-of-transfer packet and waits out the quiescent
// period. The device reboots; no acknowledgment is expected and no
// further communication is possible.
func (u *Uploader) terminate() error {
	if err := u.sendPacket(protocol.TypeEndTransfer, protocol.CmndEndTransfer, false); err != nil {
		return fmt.Errorf("end transfer: %w", err)
	}
	time.Sleep(u.config.QuiescePeriod)
	return nil
}
