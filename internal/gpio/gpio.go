// Package gpio claims the pin map on a bench host with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/pinmap/internal/pins"

// Lines drives output roles and reads the encoder inputs.
type Lines interface {
	// Set drives an output role. active=true sets the line high.
	Set(role pins.Role, active bool) error

	// ReadEncoder returns the raw encoder line levels.
	ReadEncoder() (EncoderLevels, error)

	// Close returns the lines to inputs and releases them.
	Close() error
}

// EncoderLevels holds raw line values (true = high). With the pull-ups the
// encoder lines idle high.
type EncoderLevels struct {
	A bool
	B bool
	C bool
}

// SafeLevel is the level an output role is driven to when claimed.
// The stepper driver enable is active-low, so it starts high.
func SafeLevel(role pins.Role) bool {
	return role == pins.RoleMotorEnable
}
