package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"etrexload/uploader"
)

// cliConfig holds the resolved settings for one upload run.
// Precedence: built-in defaults, then the optional config file, then
// explicitly set command-line flags.
type cliConfig struct {
	Port          string
	DeviceID      string
	Slow          bool
	OpenBaud      int
	EraseDeadline time.Duration
}

// etrexload config.toml key mapping.
type fileConfig struct {
	Port          string `toml:"port"`
	DeviceID      string `toml:"device_id"`
	Slow          bool   `toml:"slow"`
	OpenBaud      int    `toml:"open_baud"`
	EraseDeadline string `toml:"erase_deadline"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		Port:     "/dev/ttyUSB0",
		DeviceID: uploader.DefaultDeviceID,
		OpenBaud: 9600,
	}
}

// loadConfig overlays settings from a TOML file onto cfg. Keys absent
// from the file leave the existing values alone.
func loadConfig(path string, cfg *cliConfig) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("device_id") {
		cfg.DeviceID = strings.TrimSpace(raw.DeviceID)
	}
	if meta.IsDefined("slow") {
		cfg.Slow = raw.Slow
	}
	if meta.IsDefined("open_baud") {
		if raw.OpenBaud <= 0 {
			return fmt.Errorf("load config: open_baud must be positive, got %d", raw.OpenBaud)
		}
		cfg.OpenBaud = raw.OpenBaud
	}
	if meta.IsDefined("erase_deadline") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.EraseDeadline))
		if err != nil {
			return fmt.Errorf("load config: erase_deadline: %w", err)
		}
		cfg.EraseDeadline = d
	}
	return nil
}
