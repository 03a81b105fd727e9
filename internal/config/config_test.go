package config

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/pinmap/internal/pins"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("pinmap", nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, pins.BuildDirection, cfg.Direction)
	assert.Equal(t, "tcp://192.168.1.200:1883", cfg.Broker)
	assert.Equal(t, ":80", cfg.HTTPAddr)
	assert.Equal(t, "gpiochip0", cfg.Chip)
	assert.False(t, cfg.Claim)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll)
	assert.Equal(t, 15*time.Minute, cfg.Heartbeat)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, FormatTable, cfg.Format)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PINMAP_ENCODER_DIRECTION", "0")
	t.Setenv("PINMAP_BROKER", "tcp://broker:1883")
	t.Setenv("PINMAP_CLAIM", "true")
	t.Setenv("PINMAP_POLL", "50ms")
	t.Setenv("PINMAP_LOG_LEVEL", "debug")

	cfg, err := Load("pinmap", nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, pins.Reversed, cfg.Direction)
	assert.Equal(t, "tcp://broker:1883", cfg.Broker)
	assert.True(t, cfg.Claim)
	assert.Equal(t, 50*time.Millisecond, cfg.Poll)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PINMAP_ENCODER_DIRECTION", "0")
	t.Setenv("PINMAP_HTTP", ":8080")

	cfg, err := Load("pinmap", []string{"-encoder-direction", "1", "-http", "", "-print", "-format", "json"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, pins.Forward, cfg.Direction)
	assert.Equal(t, "", cfg.HTTPAddr)
	assert.True(t, cfg.Print)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad direction", []string{"-encoder-direction", "sideways"}},
		{"bad level", []string{"-log-level", "loud"}},
		{"zero poll", []string{"-poll", "0s"}},
		{"negative heartbeat", []string{"-heartbeat", "-1s"}},
		{"bad format", []string{"-format", "yaml"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("pinmap", tt.args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("PINMAP_POLL", "often")
	_, err := Load("pinmap", nil, io.Discard)
	assert.Error(t, err)
}
