//go:build !encoder_reversed

package pins

// BuildDirection is the encoder direction compiled into the constants.
const BuildDirection = Forward

// Rotary encoder channels.
const (
	EncoderA = encoderForwardA
	EncoderB = encoderForwardB
)
