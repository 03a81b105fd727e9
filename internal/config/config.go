// Package config loads pinmap settings from the environment and flags.
// Flags take precedence over PINMAP_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/sweeney/pinmap/internal/pins"
)

// Print formats for -print.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config holds daemon settings.
type Config struct {
	EncoderDirection string        `env:"ENCODER_DIRECTION"`
	Broker           string        `env:"BROKER" envDefault:"tcp://192.168.1.200:1883"`
	HTTPAddr         string        `env:"HTTP" envDefault:":80"`
	Chip             string        `env:"CHIP" envDefault:"gpiochip0"`
	Claim            bool          `env:"CLAIM"`
	Poll             time.Duration `env:"POLL" envDefault:"100ms"`
	Heartbeat        time.Duration `env:"HEARTBEAT" envDefault:"15m"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`

	Print  bool
	Format string

	// Resolved by Load.
	Direction pins.EncoderDirection
	Level     zerolog.Level
}

// Load parses PINMAP_* environment variables, then args.
func Load(name string, args []string, output io.Writer) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PINMAP_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.EncoderDirection, "encoder-direction", cfg.EncoderDirection,
		`ENCODER_DIRECTION value: 1 or "forward", anything else reverses A/B (empty uses the build default)`)
	fs.StringVar(&cfg.Broker, "broker", cfg.Broker, `MQTT broker address (empty to disable)`)
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP status address (empty to disable)")
	fs.StringVar(&cfg.Chip, "chip", cfg.Chip, "GPIO chip used with -claim")
	fs.BoolVar(&cfg.Claim, "claim", cfg.Claim, "Claim the pin map on a Linux GPIO chip")
	fs.DurationVar(&cfg.Poll, "poll", cfg.Poll, "Encoder line polling interval")
	fs.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Print, "print", false, "Print the pin map and exit")
	fs.StringVar(&cfg.Format, "format", FormatTable, `Print format ("table" or "json")`)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	c.Direction = pins.BuildDirection
	if c.EncoderDirection != "" {
		dir, err := pins.ParseDirection(c.EncoderDirection)
		if err != nil {
			return fmt.Errorf("encoder direction: %w", err)
		}
		c.Direction = dir
	}

	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	c.Level = lvl

	if c.Poll <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Heartbeat < 0 {
		return errors.New("heartbeat interval must not be negative")
	}
	switch c.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
