//go:build encoder_reversed

package pins

// BuildDirection is the encoder direction compiled into the constants.
const BuildDirection = Reversed

// Rotary encoder channels, swapped for reverse-wired encoders.
const (
	EncoderA = encoderForwardB
	EncoderB = encoderForwardA
)
