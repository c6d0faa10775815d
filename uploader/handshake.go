package uploader

import (
	"bytes"
	"fmt"
	"time"

	"etrexload/protocol"
)

// identify sends the product request and verifies the device answers as
// the expected model. The device follows its product data with one more
// informational frame, which is read and discarded.
func (u *Uploader) identify() error {
	if err := u.sendPacket(protocol.TypeProductRequest, protocol.CmndNull, true); err != nil {
		return fmt.Errorf("product request: %w", err)
	}

	frame, err := u.readPacket(true)
	if err != nil {
		return fmt.Errorf("product data: %w", err)
	}
	if !bytes.Contains(frame.Payload, []byte(u.config.DeviceID)) {
		return &DeviceNotFoundError{WantID: u.config.DeviceID, Response: frame.Payload}
	}
	u.logInfo("device identified", "product", productName(frame.Payload))

	// Extended product data follow-on.
	if _, err := u.readPacket(true); err != nil {
		return fmt.Errorf("extended product data: %w", err)
	}
	return nil
}

// productName extracts the printable product string from a product data
// payload: two 16-bit fields, then a NUL-terminated name.
func productName(payload []byte) string {
	if len(payload) <= 4 {
		return ""
	}
	name := payload[4:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// queryCapacity runs the transfer-memory command sequence and returns
// the device's map memory capacity in bytes. The device sends three
// frames in response; only the third carries the capacity.
func (u *Uploader) queryCapacity(required int64) (uint32, error) {
	if err := u.sendPacket(protocol.TypeSessionStart, protocol.CmndNull, false); err != nil {
		return 0, fmt.Errorf("session start: %w", err)
	}
	if err := u.sendPacket(protocol.TypeCommandData, protocol.CmndTransferMem, false); err != nil {
		return 0, fmt.Errorf("transfer memory command: %w", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := u.readPacket(true); err != nil {
			return 0, fmt.Errorf("capacity preamble: %w", err)
		}
	}
	frame, err := u.readPacket(true)
	if err != nil {
		return 0, fmt.Errorf("capacity data: %w", err)
	}

	capacity, err := protocol.ParseCapacity(frame.Payload)
	if err != nil {
		return 0, &CapacityError{Err: err}
	}
	if capacity == 0 {
		return 0, &CapacityError{}
	}
	if required > int64(capacity) {
		return 0, &CapacityError{Capacity: capacity, Required: required}
	}

	u.logInfo("device capacity", "bytes", capacity)
	return capacity, nil
}

// negotiateSpeed upgrades the link to the configured target baud rate:
// speed-test probe, change-speed command, host-side reconfiguration,
// then three pings to resynchronize at the new speed.
func (u *Uploader) negotiateSpeed() error {
	if err := u.sendPacket(protocol.TypeCommandData, protocol.CmndSpeedTest, true); err != nil {
		return fmt.Errorf("speed test: %w", err)
	}
	frame, err := u.readPacket(true)
	if err != nil {
		return fmt.Errorf("speed test response: %w", err)
	}
	if frame.Type != protocol.TypeSpeedReady {
		return &ProtocolError{
			Op:      "speed test",
			Message: fmt.Sprintf("unexpected response type 0x%02X", byte(frame.Type)),
		}
	}

	payload := protocol.SpeedPayload(uint32(u.config.TargetBaud))
	if err := u.sendPacket(protocol.TypeChangeSpeed, payload, true); err != nil {
		return fmt.Errorf("change speed: %w", err)
	}
	frame, err = u.readPacket(true)
	if err != nil {
		return fmt.Errorf("change speed response: %w", err)
	}
	if frame.Type != protocol.TypeSpeedAccepted {
		return &ProtocolError{
			Op:      "change speed",
			Message: fmt.Sprintf("unexpected response type 0x%02X", byte(frame.Type)),
		}
	}
	accepted, err := protocol.ParseSpeed(frame.Payload)
	if err != nil {
		return fmt.Errorf("change speed response: %w", err)
	}
	u.logInfo("device accepted speed", "baud", accepted)

	// Let the device settle before switching the host side.
	time.Sleep(u.config.SpeedSettle)
	if err := u.port.SetBaudRate(u.config.TargetBaud); err != nil {
		return fmt.Errorf("set baud rate: %w", err)
	}

	for i := 1; i <= u.config.PingCount; i++ {
		u.logDebug("ping", "n", i)
		if err := u.sendPacket(protocol.TypeCommandData, protocol.CmndPing, true); err != nil {
			return fmt.Errorf("ping %d: %w", i, err)
		}
	}
	return nil
}
