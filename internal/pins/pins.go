// Package pins holds the pin assignments for the stepper controller board.
//
// Pin numbers use the board's Arduino-style labels. Digital pins are plain
// numbers; analog pins keep their "A" label but also resolve to the digital
// number the ATmega328P core gives them (A0 = 14).
package pins

import (
	"fmt"
	"strconv"
	"strings"
)

// Pin is a board pin label.
type Pin uint8

const (
	analogFlag Pin = 0x80
	analogBase     = 14 // digital number of A0 on ATmega328P boards
)

// Analog inputs that double as digital pins.
const (
	A0 Pin = analogFlag | iota
	A1
	A2
	A3
	A4
	A5
	A6
	A7
)

// Stepper motor.
const (
	MotorEnable Pin = 8
	MotorStep   Pin = 7
	MotorDir    Pin = 4
)

// Fan PWM output.
const FanPWM Pin = A3

// Buzzer.
const Buzzer Pin = 12

// Fan.
const Fan Pin = A3

// Rotary encoder. EncoderA and EncoderB take the A/B pins in the order the
// build direction selects.
const (
	encoderForwardA Pin = 9
	encoderForwardB Pin = 10
	EncoderC        Pin = 11
)

// OLED screen.
const (
	OLEDClock  Pin = 5
	OLEDData   Pin = 4
	OLEDSelect Pin = 16
)

// IsAnalog reports whether p was declared by its analog label.
func (p Pin) IsAnalog() bool {
	return p&analogFlag != 0
}

// Number returns the digital pin number.
func (p Pin) Number() int {
	if p.IsAnalog() {
		return analogBase + int(p&^analogFlag)
	}
	return int(p)
}

func (p Pin) String() string {
	if p.IsAnalog() {
		return "A" + strconv.Itoa(int(p&^analogFlag))
	}
	return strconv.Itoa(int(p))
}

// ParsePin parses a pin label such as "8" or "A3".
func ParsePin(s string) (Pin, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "A"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n > 7 {
			return 0, fmt.Errorf("invalid analog pin %q", s)
		}
		return analogFlag | Pin(n), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= int(analogFlag) {
		return 0, fmt.Errorf("invalid pin %q", s)
	}
	return Pin(n), nil
}
