package pins

import (
	"fmt"
	"strconv"
	"strings"
)

// EncoderDirection selects the encoder A/B pin order. Reversed compensates
// for an encoder wired the other way round.
type EncoderDirection int

const (
	Reversed EncoderDirection = iota
	Forward
)

// DirectionFromFlag maps the firmware's ENCODER_DIRECTION value: 1 is
// Forward, anything else Reversed.
func DirectionFromFlag(v int) EncoderDirection {
	if v == 1 {
		return Forward
	}
	return Reversed
}

// Flag returns the ENCODER_DIRECTION value that selects d.
func (d EncoderDirection) Flag() int {
	if d == Forward {
		return 1
	}
	return 0
}

func (d EncoderDirection) String() string {
	if d == Forward {
		return "forward"
	}
	return "reversed"
}

// ParseDirection accepts an integer flag value, "forward" or "reversed".
// Integers follow C literal rules: "0x1" is 1, "010" is octal 8, and
// u/l suffixes are ignored. An empty string is flag 0, the value an
// undefined macro takes in #if.
func ParseDirection(s string) (EncoderDirection, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return Reversed, nil
	case "forward":
		return Forward, nil
	case "reversed", "reverse":
		return Reversed, nil
	}
	lit := strings.TrimRight(s, "uUlL")
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil || lit == "" {
		return 0, fmt.Errorf("invalid encoder direction %q", s)
	}
	if v != 1 {
		return Reversed, nil
	}
	return Forward, nil
}
