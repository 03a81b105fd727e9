package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pinmap/internal/pins"
)

// PinMapJSON is the top-level JSON envelope for the resolved pin map.
type PinMapJSON struct {
	PinMap PinMapInner `json:"pinmap"`
}

// PinMapInner contains the pin table.
type PinMapInner struct {
	Timestamp        string      `json:"timestamp,omitempty"`
	EncoderDirection string      `json:"encoder_direction"`
	DirectionFlag    int         `json:"encoder_direction_flag"`
	Pins             []PinJSON   `json:"pins"`
	Shared           []ShareJSON `json:"shared"`
}

// PinJSON is one role binding.
type PinJSON struct {
	Role        string `json:"role"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Peripheral  string `json:"peripheral"`
	Pin         string `json:"pin"`
	Number      int    `json:"number"`
	Input       bool   `json:"input"`
}

// ShareJSON is a pin bound to more than one role.
type ShareJSON struct {
	Pin    string   `json:"pin"`
	Number int      `json:"number"`
	Kind   string   `json:"kind"`
	Roles  []string `json:"roles"`
}

// BuildPinMap converts a resolved map to its JSON form.
func BuildPinMap(m pins.Map) PinMapInner {
	inner := PinMapInner{
		EncoderDirection: m.Direction.String(),
		DirectionFlag:    m.Direction.Flag(),
		Shared:           []ShareJSON{},
	}
	for _, a := range m.Assignments() {
		inner.Pins = append(inner.Pins, PinJSON{
			Role:        a.Role.String(),
			Symbol:      a.Role.Symbol(),
			Description: a.Role.Description(),
			Peripheral:  string(a.Role.Peripheral()),
			Pin:         a.Pin.String(),
			Number:      a.Pin.Number(),
			Input:       a.Role.IsInput(),
		})
	}
	for _, s := range m.Shares() {
		sj := ShareJSON{Pin: s.Pin.String(), Number: s.Pin.Number(), Kind: string(s.Kind)}
		for _, r := range s.Roles {
			sj.Roles = append(sj.Roles, r.String())
		}
		inner.Shared = append(inner.Shared, sj)
	}
	return inner
}

// FormatPinMap returns the JSON pin map for the retained MQTT message.
func FormatPinMap(m pins.Map, ts time.Time) []byte {
	inner := BuildPinMap(m)
	inner.Timestamp = ts.UTC().Format(time.RFC3339)

	data, _ := json.Marshal(PinMapJSON{PinMap: inner})
	return data
}

// FormatPinMapIndent returns the indented JSON pin map without a timestamp.
func FormatPinMapIndent(m pins.Map) []byte {
	data, _ := json.MarshalIndent(PinMapJSON{PinMap: BuildPinMap(m)}, "", "  ")
	return data
}

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event            string       `json:"event,omitempty"`
	Reason           string       `json:"reason,omitempty"`
	EncoderDirection string       `json:"encoder_direction"`
	SharedPins       int          `json:"shared_pins"`
	Encoder          *EncoderJSON `json:"encoder,omitempty"`
	UptimeSeconds    int64        `json:"uptime_seconds"`
	StartTime        string       `json:"start_time"`
	Timestamp        string       `json:"timestamp"`
	MQTT             MQTTStatus   `json:"mqtt"`
	GPIO             GPIOStatus   `json:"gpio"`
	Config           ConfigJSON   `json:"config"`
}

// EncoderJSON reports raw encoder line levels.
type EncoderJSON struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// GPIOStatus reports whether the lines are claimed.
type GPIOStatus struct {
	Claimed bool   `json:"claimed"`
	Chip    string `json:"chip,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// Level renders a raw line level.
func Level(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		EncoderDirection: snap.Map.Direction.String(),
		SharedPins:       len(snap.Map.Shares()),
		UptimeSeconds:    int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:        snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		MQTT:             MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		GPIO:             GPIOStatus{Claimed: snap.Config.Claimed},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if snap.Config.Claimed {
		inner.GPIO.Chip = snap.Config.Chip
	}
	if snap.EncoderValid {
		inner.Encoder = &EncoderJSON{
			A: Level(snap.Encoder.A),
			B: Level(snap.Encoder.B),
			C: Level(snap.Encoder.C),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
