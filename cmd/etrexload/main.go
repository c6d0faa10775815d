// Command etrexload uploads a Garmin map image (gmapsupp.img) to an
// eTrex Legend over a serial link.
//
// Interacting with the device over serial in unexpected ways can brick
// it. Back up your data and use at your own risk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"etrexload/link"
	"etrexload/protocol"
	"etrexload/uploader"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "serial port the device is connected to (default /dev/ttyUSB0)")
		slowFlag   = flag.Bool("s", false, "slow upload: keep the opening baud rate, skip 115200 negotiation")
		debugFlag  = flag.Bool("d", false, "debug logging")
		configFlag = flag.String("c", "", "optional TOML config file")
	)
	flag.Parse()

	mapFile := "gmapsupp.img"
	if flag.NArg() > 0 {
		mapFile = flag.Arg(0)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := defaultCLIConfig()
	if *configFlag != "" {
		if err := loadConfig(*configFlag, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "etrexload: %v\n", err)
			os.Exit(1)
		}
	}
	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = *portFlag
		case "s":
			cfg.Slow = *slowFlag
		}
	})

	if err := run(cfg, mapFile, logger, *debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "etrexload: %s\n", diagnose(err))
		os.Exit(1)
	}
}

func run(cfg cliConfig, mapFile string, logger zerolog.Logger, debug bool) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	dev, err := link.Open(cfg.Port, cfg.OpenBaud)
	if err != nil {
		return err
	}
	// The session may leave the link in an unknown state; close it no
	// matter how the upload ends.
	defer dev.Close()

	logger.Info().Str("port", cfg.Port).Str("map", mapFile).Int64("bytes", info.Size()).Msg("starting upload")

	opts := []uploader.Option{
		uploader.WithSlowMode(cfg.Slow),
		uploader.WithDeviceID(cfg.DeviceID),
		uploader.WithLogger(zerologAdapter{logger}),
	}
	if cfg.EraseDeadline > 0 {
		opts = append(opts, uploader.WithEraseDeadline(cfg.EraseDeadline))
	}
	if !debug {
		// The progress bar and debug logs fight over the terminal.
		bar := progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("uploading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWriter(os.Stderr),
		)
		opts = append(opts, uploader.WithProgressCallback(func(p uploader.Progress) {
			if p.Phase != uploader.PhaseTransfer {
				return
			}
			sent := p.BytesSent
			if sent > p.TotalBytes {
				sent = p.TotalBytes
			}
			_ = bar.Set64(sent)
		}))
		defer bar.Finish()
	}

	up := uploader.New(dev, opts...)
	if err := up.Upload(context.Background(), f, info.Size()); err != nil {
		return err
	}

	logger.Info().Msg("finished; the device is rebooting")
	return nil
}

// diagnose maps session errors to one-line diagnostics.
func diagnose(err error) string {
	var (
		notFound *uploader.DeviceNotFoundError
		capErr   *uploader.CapacityError
		chunkErr *uploader.ChunkAckError
		ackErr   *uploader.AckMismatchError
		protoErr *uploader.ProtocolError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("%v", notFound)
	case errors.As(err, &capErr):
		return fmt.Sprintf("%v", capErr)
	case errors.As(err, &chunkErr):
		return fmt.Sprintf("upload failed mid-transfer: %v; rerun the full upload", chunkErr)
	case errors.As(err, &ackErr):
		return fmt.Sprintf("handshake failed: %v", ackErr)
	case errors.As(err, &protoErr):
		return fmt.Sprintf("protocol error: %v", protoErr)
	case errors.Is(err, protocol.ErrChecksumMismatch),
		errors.Is(err, protocol.ErrFraming):
		return fmt.Sprintf("corrupted data on the link: %v", err)
	case errors.Is(err, uploader.ErrReadTimeout):
		return fmt.Sprintf("device stopped responding: %v", err)
	default:
		return err.Error()
	}
}

// zerologAdapter bridges the uploader's logging seam to zerolog.
type zerologAdapter struct {
	l zerolog.Logger
}

func (z zerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (z zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.l.Info().Fields(keysAndValues).Msg(msg)
}

func (z zerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.l.Error().Fields(keysAndValues).Msg(msg)
}
