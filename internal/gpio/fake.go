package gpio

import (
	"errors"
	"fmt"

	"github.com/sweeney/pinmap/internal/pins"
)

// FakeLines is a test double that returns scripted encoder levels and
// records output writes.
type FakeLines struct {
	// Samples contains scripted levels. Each call to ReadEncoder() consumes
	// the next sample.
	Samples []EncoderLevels

	// index tracks current position in Samples
	index int

	// Levels holds the last value written to each output role.
	Levels map[pins.Role]bool

	// Writes records every Set call in order.
	Writes []Write

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadEncoder()
	ReadError error
}

// Write is one recorded Set call.
type Write struct {
	Role   pins.Role
	Active bool
}

// NewFakeLines creates FakeLines with outputs at their safe levels.
func NewFakeLines(samples []EncoderLevels) *FakeLines {
	f := &FakeLines{Samples: samples, Levels: make(map[pins.Role]bool)}
	for _, r := range pins.Roles() {
		if !r.IsInput() {
			f.Levels[r] = SafeLevel(r)
		}
	}
	return f
}

// Set records the write. Input roles are rejected like the real lines.
func (f *FakeLines) Set(role pins.Role, active bool) error {
	if f.Closed {
		return errors.New("lines closed")
	}
	if _, ok := f.Levels[role]; !ok {
		return fmt.Errorf("%s is not an output", role)
	}
	f.Levels[role] = active
	f.Writes = append(f.Writes, Write{Role: role, Active: active})
	return nil
}

// ReadEncoder returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeLines) ReadEncoder() (EncoderLevels, error) {
	if f.ReadError != nil {
		return EncoderLevels{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return EncoderLevels{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the lines as closed.
func (f *FakeLines) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds samples and clears recorded writes.
func (f *FakeLines) Reset() {
	f.index = 0
	f.Closed = false
	f.Writes = nil
}
