package uploader

import "time"

// DefaultDeviceID is the identifier substring expected in the product
// data response. The protocol dialect implemented here is only known to
// be safe on this model.
const DefaultDeviceID = "eTrex Legend"

// Config holds the uploader configuration.
type Config struct {
	// ProgressCallback is called during the upload to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// SlowMode skips the 115200 baud renegotiation and keeps the
	// opening speed for the whole session
	SlowMode bool

	// DeviceID is the substring the product data response must contain
	DeviceID string

	// TargetBaud is the line speed requested during negotiation
	TargetBaud int

	// EraseDeadline bounds the wait for the device's erase-complete
	// signal, which the protocol itself does not time-bound
	EraseDeadline time.Duration

	// EraseTimeout is the per-read timeout while waiting for the erase
	EraseTimeout time.Duration

	// ChunkTimeout is the per-read timeout during chunk transfer
	ChunkTimeout time.Duration

	// SpeedSettle is the pause between the device accepting a new speed
	// and the host switching its own line speed
	SpeedSettle time.Duration

	// PingCount is the number of ping packets sent to resynchronize the
	// link after a speed change
	PingCount int

	// QuiescePeriod is the wait after the termination packet; the
	// device reboots and must not be disturbed
	QuiescePeriod time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		DeviceID:      DefaultDeviceID,
		TargetBaud:    115200,
		EraseDeadline: 2 * time.Minute,
		EraseTimeout:  5 * time.Second,
		ChunkTimeout:  1 * time.Second,
		SpeedSettle:   100 * time.Millisecond,
		PingCount:     3,
		QuiescePeriod: 2 * time.Second,
	}
}

// Option is a functional option for configuring the Uploader.
type Option func(*Config)

// WithProgressCallback sets a callback function to track upload progress.
//
// Example:
//
//	up := uploader.New(port,
//	    uploader.WithProgressCallback(func(p uploader.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the uploader operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSlowMode keeps the opening baud rate for the whole session instead
// of negotiating 115200. Roughly twelve times slower, occasionally the
// only thing that works on flaky USB-serial adapters.
func WithSlowMode(slow bool) Option {
	return func(c *Config) {
		c.SlowMode = slow
	}
}

// WithDeviceID overrides the identifier substring expected from the
// device. Only change this if you know the target model speaks the same
// dialect; the wrong packets can brick a unit.
func WithDeviceID(id string) Option {
	return func(c *Config) {
		if id != "" {
			c.DeviceID = id
		}
	}
}

// WithEraseDeadline bounds the wait for the erase-complete signal.
func WithEraseDeadline(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.EraseDeadline = d
		}
	}
}

// WithQuiescePeriod sets the wait after the termination packet before
// the session is considered finished.
func WithQuiescePeriod(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.QuiescePeriod = d
		}
	}
}

// WithTargetBaud sets the line speed requested during negotiation.
func WithTargetBaud(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.TargetBaud = baud
		}
	}
}
