//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/pinmap/internal/pins"
)

// line is the part of *gpiocdev.Line that RealLines uses.
type line interface {
	Value() (int, error)
	SetValue(value int) error
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

// RealLines claims the pin map on actual hardware using Linux GPIO
// character device. Line offsets are the board's digital pin numbers.
type RealLines struct {
	chip  *gpiocdev.Chip
	lines map[int]line // by digital pin number
	m     pins.Map
}

// NewRealLines requests every pin in m from the named chip. Pins bound to
// several roles are requested once. Outputs start at their safe level and
// encoder inputs get pull-ups.
func NewRealLines(chipName string, m pins.Map) (*RealLines, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("pinmap"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealLines{chip: chip, lines: make(map[int]line), m: m}

	for _, c := range claimPlan(m) {
		opt, desc := lineConfig(c.roles)
		l, err := chip.RequestLine(c.number, opt...)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request pin %d (%s): %w", c.number, desc, err)
		}
		r.lines[c.number] = l
		log.Debug().Int("pin", c.number).Str("roles", desc).Msg("gpio: line claimed")
	}

	return r, nil
}

// lineConfig picks the request options for the roles sharing one line.
// A line carrying any input role is requested as an input.
func lineConfig(roles []pins.Role) ([]gpiocdev.LineReqOption, string) {
	desc := ""
	input := false
	high := false
	for i, role := range roles {
		if i > 0 {
			desc += "+"
		}
		desc += role.String()
		if role.IsInput() {
			input = true
		}
		if SafeLevel(role) {
			high = true
		}
	}
	if input {
		return []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp}, desc
	}
	v := 0
	if high {
		v = 1
	}
	return []gpiocdev.LineReqOption{gpiocdev.AsOutput(v)}, desc
}

func (r *RealLines) line(role pins.Role) (line, error) {
	p, ok := r.m.Pin(role)
	if !ok {
		return nil, fmt.Errorf("unknown role %d", role)
	}
	l := r.lines[p.Number()]
	if l == nil {
		return nil, fmt.Errorf("%s: pin %s not claimed", role, p)
	}
	return l, nil
}

// Set drives an output role.
func (r *RealLines) Set(role pins.Role, active bool) error {
	if _, err := outputPin(r.m, role); err != nil {
		return err
	}
	l, err := r.line(role)
	if err != nil {
		return err
	}
	v := 0
	if active {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", role, err)
	}
	return nil
}

// ReadEncoder returns the raw encoder levels.
func (r *RealLines) ReadEncoder() (EncoderLevels, error) {
	var out EncoderLevels
	for _, ch := range []struct {
		role pins.Role
		dst  *bool
	}{
		{pins.RoleEncoderA, &out.A},
		{pins.RoleEncoderB, &out.B},
		{pins.RoleEncoderC, &out.C},
	} {
		l, err := r.line(ch.role)
		if err != nil {
			return EncoderLevels{}, err
		}
		v, err := l.Value()
		if err != nil {
			return EncoderLevels{}, fmt.Errorf("read %s: %w", ch.role, err)
		}
		*ch.dst = v != 0
	}
	return out, nil
}

// Close releases GPIO resources.
// Every line is reconfigured to input with pull-up before closing so that
// no output is left driving the board.
func (r *RealLines) Close() error {
	var errs []error

	for _, n := range sortedKeys(r.lines) {
		l := r.lines[n]
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", n, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", n, err))
		}
	}
	r.lines = nil
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		r.chip = nil
	}

	return errors.Join(errs...)
}

func sortedKeys(lines map[int]line) []int {
	keys := make([]int, 0, len(lines))
	for n := range lines {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	return keys
}
