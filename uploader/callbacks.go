package uploader

import "time"

// Upload phases, in session order.
const (
	PhaseIdentify  = "identifying"
	PhaseNegotiate = "negotiating"
	PhaseErase     = "erasing"
	PhaseTransfer  = "transferring"
	PhaseTerminate = "terminating"
	PhaseComplete  = "complete"
)

// Progress contains information about the upload progress.
// Passed to ProgressCallback after each phase change and after every
// acknowledged map chunk.
type Progress struct {
	// Phase is the current session phase (see Phase* constants)
	Phase string

	// BytesSent is the nominal byte count: the offset cursor, advanced
	// by the fixed chunk size per acknowledged chunk regardless of the
	// final chunk's true length, matching the device's bookkeeping.
	// It may exceed TotalBytes by up to one chunk at the end.
	BytesSent int64

	// TotalBytes is the size of the map image being uploaded
	TotalBytes int64

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Elapsed is the time since the session started
	Elapsed time.Duration
}

// ProgressCallback is called during the upload to report progress.
// Implementations should return quickly: the callback runs on the
// session's only goroutine, between a chunk's acknowledgment and the
// next chunk's send.
type ProgressCallback func(Progress)

// Logger is an optional logging interface the uploader reports through.
// This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
