//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/pinmap/internal/pins"
)

// RealLines is not available on non-Linux platforms.
type RealLines struct{}

// NewRealLines returns an error on non-Linux platforms.
func NewRealLines(chip string, m pins.Map) (*RealLines, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (r *RealLines) Set(role pins.Role, active bool) error {
	return errors.New("gpio: not supported")
}

// ReadEncoder is not implemented on non-Linux platforms.
func (r *RealLines) ReadEncoder() (EncoderLevels, error) {
	return EncoderLevels{}, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealLines) Close() error {
	return nil
}
