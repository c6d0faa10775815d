package uploader

import (
	"context"
	"io"
	"time"
)

// Uploader orchestrates one map upload session against a handheld on the
// other end of a Port. A session is strictly synchronous and half-duplex:
// every send is followed by a blocking read for its acknowledgment, and
// the port belongs to the session alone.
//
// Any failure aborts the whole session; nothing is retried. An aborted
// transfer leaves the device's map memory in an undefined state, and the
// only recovery is a fresh session from the top.
type Uploader struct {
	port    Port
	config  Config
	started time.Time
}

// New creates a new Uploader driving the given port.
//
// Example:
//
//	port, _ := link.Open("/dev/ttyUSB0", 9600)
//	up := uploader.New(port,
//	    uploader.WithProgressCallback(progressFunc),
//	    uploader.WithSlowMode(false),
//	)
func New(port Port, opts ...Option) *Uploader {
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Uploader{
		port:   port,
		config: cfg,
	}
}

// Upload performs the complete map upload sequence:
//  1. Identify the device and verify the model
//  2. Query map memory capacity and check the image fits
//  3. Negotiate the target line speed (unless in slow mode)
//  4. Erase the device's map memory
//  5. Stream the image as acknowledged, offset-tagged chunks
//  6. Terminate the transfer (the device reboots)
//
// The source must yield exactly totalSize bytes. Upload does not close
// the port; the owner closes it unconditionally after the session, since
// a failure leaves the link state unknown.
func (u *Uploader) Upload(ctx context.Context, src io.Reader, totalSize int64) error {
	u.started = time.Now()

	if err := u.upload(ctx, src, totalSize); err != nil {
		u.logError("upload aborted", "error", err.Error())
		return err
	}
	return nil
}

func (u *Uploader) upload(ctx context.Context, src io.Reader, totalSize int64) error {
	u.reportProgress(PhaseIdentify, 0, totalSize)
	if err := u.identify(); err != nil {
		return err
	}

	u.reportProgress(PhaseNegotiate, 0, totalSize)
	capacity, err := u.queryCapacity(totalSize)
	if err != nil {
		return err
	}
	u.logInfo("starting upload", "map_bytes", totalSize, "capacity", capacity)

	if u.config.SlowMode {
		u.logInfo("slow mode, keeping opening baud rate")
	} else {
		if err := u.negotiateSpeed(); err != nil {
			return err
		}
	}

	u.reportProgress(PhaseErase, 0, totalSize)
	if err := u.eraseMaps(ctx); err != nil {
		return err
	}

	sent, err := u.sendChunks(ctx, src, totalSize)
	if err != nil {
		return err
	}

	u.reportProgress(PhaseTerminate, sent, totalSize)
	if err := u.terminate(); err != nil {
		return err
	}

	u.reportProgress(PhaseComplete, sent, totalSize)
	u.logInfo("upload complete",
		"bytes", totalSize,
		"nominal", sent,
		"elapsed", time.Since(u.started).String(),
	)
	return nil
}

// reportProgress calls the progress callback if configured.
func (u *Uploader) reportProgress(phase string, sent, total int64) {
	if u.config.ProgressCallback == nil {
		return
	}

	pct := 0.0
	if total > 0 {
		pct = float64(sent) / float64(total) * 100
		if pct > 100 {
			pct = 100
		}
	}
	if phase == PhaseComplete {
		pct = 100
	}

	u.config.ProgressCallback(Progress{
		Phase:      phase,
		BytesSent:  sent,
		TotalBytes: total,
		Percentage: pct,
		Elapsed:    time.Since(u.started),
	})
}

// logDebug logs a debug message if a logger is configured.
func (u *Uploader) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (u *Uploader) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (u *Uploader) logError(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Error(msg, keysAndValues...)
	}
}
