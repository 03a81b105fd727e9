package pins

import "strings"

// Role is a logical peripheral function bound to one pin.
type Role int

const (
	RoleMotorEnable Role = iota
	RoleMotorStep
	RoleMotorDir
	RoleFanPWM
	RoleBuzzer
	RoleFan
	RoleEncoderA
	RoleEncoderB
	RoleEncoderC
	RoleOLEDClock
	RoleOLEDData
	RoleOLEDSelect

	numRoles
)

// Peripheral groups roles that belong to the same part on the board.
type Peripheral string

const (
	PeripheralMotor   Peripheral = "motor"
	PeripheralFan     Peripheral = "fan"
	PeripheralBuzzer  Peripheral = "buzzer"
	PeripheralEncoder Peripheral = "encoder"
	PeripheralOLED    Peripheral = "oled"
)

type roleInfo struct {
	id         string
	symbol     string
	desc       string
	peripheral Peripheral
	input      bool
}

// Table order matches the firmware header.
var roles = [numRoles]roleInfo{
	RoleMotorEnable: {"motor_en", "PIN_MOTOR_EN", "Motor enable", PeripheralMotor, false},
	RoleMotorStep:   {"motor_step", "PIN_MOTOR_STEP", "Motor step", PeripheralMotor, false},
	RoleMotorDir:    {"motor_dir", "PIN_MOTOR_DIR", "Motor direction", PeripheralMotor, false},
	RoleFanPWM:      {"fan_pwm", "PIN_FAN_PWM", "Fan PWM", PeripheralFan, false},
	RoleBuzzer:      {"buzzer", "PIN_BUZZER", "Buzzer", PeripheralBuzzer, false},
	RoleFan:         {"fan", "PIN_FAN", "Fan", PeripheralFan, false},
	RoleEncoderA:    {"enc_a", "PIN_ENC_A", "Encoder A", PeripheralEncoder, true},
	RoleEncoderB:    {"enc_b", "PIN_ENC_B", "Encoder B", PeripheralEncoder, true},
	RoleEncoderC:    {"enc_c", "PIN_ENC_C", "Encoder C (click)", PeripheralEncoder, true},
	RoleOLEDClock:   {"oled_clk", "PIN_OLED_CLK", "OLED clock", PeripheralOLED, false},
	RoleOLEDData:    {"oled_dat", "PIN_OLED_DAT", "OLED data", PeripheralOLED, false},
	RoleOLEDSelect:  {"oled_cs", "PIN_OLED_CS", "OLED chip-select", PeripheralOLED, false},
}

// Roles returns every role in table order.
func Roles() []Role {
	out := make([]Role, numRoles)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

func (r Role) valid() bool {
	return r >= 0 && r < numRoles
}

// String returns the short identifier, e.g. "motor_en".
func (r Role) String() string {
	if !r.valid() {
		return "unknown"
	}
	return roles[r].id
}

// Symbol returns the firmware macro name, e.g. "PIN_MOTOR_EN".
func (r Role) Symbol() string {
	if !r.valid() {
		return ""
	}
	return roles[r].symbol
}

// Description returns a human-readable name.
func (r Role) Description() string {
	if !r.valid() {
		return ""
	}
	return roles[r].desc
}

// Peripheral returns the part the role belongs to.
func (r Role) Peripheral() Peripheral {
	if !r.valid() {
		return ""
	}
	return roles[r].peripheral
}

// IsInput reports whether the board reads the pin rather than driving it.
func (r Role) IsInput() bool {
	return r.valid() && roles[r].input
}

// LookupRole finds a role by identifier ("enc_a") or symbol ("PIN_ENC_A").
// Matching is case-insensitive.
func LookupRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for i, info := range roles {
		if strings.EqualFold(name, info.id) || strings.EqualFold(name, info.symbol) {
			return Role(i), true
		}
	}
	return 0, false
}
