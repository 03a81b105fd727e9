package pins

import "sort"

// Map is the resolved pin for every role.
type Map struct {
	Direction EncoderDirection
	pins      [numRoles]Pin
}

// Assignment binds one role to its pin.
type Assignment struct {
	Role Role
	Pin  Pin
}

// ShareKind classifies a pin bound to more than one role.
type ShareKind string

const (
	// ShareAlias means every role on the pin belongs to the same peripheral.
	ShareAlias ShareKind = "alias"
	// ShareConflict means the pin is bound to different peripherals.
	ShareConflict ShareKind = "shared"
)

// Share is a pin bound to more than one role.
type Share struct {
	Pin   Pin
	Roles []Role
	Kind  ShareKind
}

// For returns the pin table resolved for the given encoder direction.
func For(dir EncoderDirection) Map {
	encA, encB := encoderForwardA, encoderForwardB
	if dir != Forward {
		encA, encB = encB, encA
	}

	m := Map{Direction: dir}
	m.pins[RoleMotorEnable] = MotorEnable
	m.pins[RoleMotorStep] = MotorStep
	m.pins[RoleMotorDir] = MotorDir
	m.pins[RoleFanPWM] = FanPWM
	m.pins[RoleBuzzer] = Buzzer
	m.pins[RoleFan] = Fan
	m.pins[RoleEncoderA] = encA
	m.pins[RoleEncoderB] = encB
	m.pins[RoleEncoderC] = EncoderC
	m.pins[RoleOLEDClock] = OLEDClock
	m.pins[RoleOLEDData] = OLEDData
	m.pins[RoleOLEDSelect] = OLEDSelect
	return m
}

// Build returns the table matching the compiled-in constants.
func Build() Map {
	return For(BuildDirection)
}

// Pin returns the pin bound to r.
func (m Map) Pin(r Role) (Pin, bool) {
	if !r.valid() {
		return 0, false
	}
	return m.pins[r], true
}

// Assignments returns every binding in table order.
func (m Map) Assignments() []Assignment {
	out := make([]Assignment, 0, numRoles)
	for _, r := range Roles() {
		out = append(out, Assignment{Role: r, Pin: m.pins[r]})
	}
	return out
}

// RolesOn returns the roles bound to the given digital pin number.
func (m Map) RolesOn(number int) []Role {
	var out []Role
	for _, r := range Roles() {
		if m.pins[r].Number() == number {
			out = append(out, r)
		}
	}
	return out
}

// Shares reports pins bound to more than one role, ordered by pin number.
// Pins are compared by digital number, so "A3" and "17" collide.
func (m Map) Shares() []Share {
	byNumber := make(map[int][]Role)
	for _, r := range Roles() {
		n := m.pins[r].Number()
		byNumber[n] = append(byNumber[n], r)
	}

	var out []Share
	for _, rs := range byNumber {
		if len(rs) < 2 {
			continue
		}
		kind := ShareAlias
		for _, r := range rs[1:] {
			if r.Peripheral() != rs[0].Peripheral() {
				kind = ShareConflict
				break
			}
		}
		out = append(out, Share{Pin: m.pins[rs[0]], Roles: rs, Kind: kind})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Pin.Number() < out[j].Pin.Number()
	})
	return out
}
