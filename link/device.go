// Package link opens and configures the serial connection to the
// handheld, implementing the uploader's Port contract on top of
// go.bug.st/serial.
package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"etrexload/uploader"
)

// Device is an open serial connection with mutable line speed and read
// timeout. It is not safe for concurrent use; the uploader owns it
// exclusively for the session.
type Device struct {
	port serial.Port
	name string
	baud int
}

// Open opens the named serial port at the given baud rate, 8N1.
func Open(name string, baud int) (*Device, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &Device{port: port, name: name, baud: baud}, nil
}

// Read reads from the port. A read timeout surfaces as
// uploader.ErrReadTimeout instead of the library's zero-byte success, so
// that frame parsing fails fast rather than spinning on an idle line.
func (d *Device) Read(p []byte) (int, error) {
	n, err := d.port.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s: %w", d.name, uploader.ErrReadTimeout)
	}
	return n, nil
}

// Write writes to the port.
func (d *Device) Write(p []byte) (int, error) {
	return d.port.Write(p)
}

// SetBaudRate reconfigures the line speed of the open connection.
func (d *Device) SetBaudRate(baud int) error {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if err := d.port.SetMode(mode); err != nil {
		return fmt.Errorf("set %s to %d baud: %w", d.name, baud, err)
	}
	d.baud = baud
	return nil
}

// SetReadTimeout changes how long a Read blocks waiting for data.
func (d *Device) SetReadTimeout(t time.Duration) error {
	return d.port.SetReadTimeout(t)
}

// Drain discards any bytes buffered on the receive side.
func (d *Device) Drain() error {
	return d.port.ResetInputBuffer()
}

// Baud returns the current line speed.
func (d *Device) Baud() int {
	return d.baud
}

// Close closes the port.
func (d *Device) Close() error {
	return d.port.Close()
}

var _ uploader.Port = (*Device)(nil)
