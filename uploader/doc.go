// Package uploader drives a complete map upload session against a Garmin
// eTrex-class handheld over a serial link.
//
// # Overview
//
// The uploader runs the full device conversation:
//   - Product identification and model check
//   - Memory capacity query
//   - Optional line speed renegotiation to 115200 baud
//   - Map memory erase, with a bounded wait for completion
//   - Chunked, acknowledged transfer of the map image
//   - Termination (the device reboots)
//
// # Basic Usage
//
//	port, err := link.Open("/dev/ttyUSB0", 9600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	f, err := os.Open("gmapsupp.img")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//	info, _ := f.Stat()
//
//	up := uploader.New(port)
//	err = up.Upload(context.Background(), f, info.Size())
//
// # Progress Tracking
//
//	up := uploader.New(port,
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("[%s] %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
//
// Note that BytesSent is nominal: the device accounts for every chunk at
// the fixed chunk size, so the final value is the chunk count times 250,
// which can slightly exceed the image size.
//
// # Failure Model
//
// Every error is fatal to the session. Nothing is retried; the first
// failure surfaces immediately and the device is left in an undefined
// state. The structured error types tell the phases apart:
//   - DeviceNotFoundError: the unit did not identify as the expected model
//   - CapacityError: no usable map memory, or the image does not fit
//   - AckMismatchError, ChunkAckError: acknowledgment protocol violations
//   - ProtocolError: unexpected response during negotiation or erase
//   - protocol.ErrChecksumMismatch, protocol.ErrFraming: wire corruption
//
// Interrupting a session mid-transfer is not recoverable by the
// protocol; rerun the whole upload.
//
// # Hardware Independence
//
// The uploader talks to a Port, not to hardware. The link package
// provides the real serial implementation; tests script an in-memory
// one.
package uploader
