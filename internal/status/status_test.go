package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/pinmap/internal/gpio"
	"github.com/sweeney/pinmap/internal/pins"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 100, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, pins.For(pins.Forward), cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.Map.Direction != pins.Forward {
		t.Errorf("Map.Direction: got %v, want forward", snap.Map.Direction)
	}
	if snap.EncoderValid {
		t.Error("expected EncoderValid=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateEncoder(t *testing.T) {
	tr := NewTracker(time.Now(), pins.Build(), Config{})

	tr.UpdateEncoder(gpio.EncoderLevels{A: true, C: true})
	snap := tr.Snapshot()
	if !snap.EncoderValid {
		t.Fatal("expected EncoderValid=true")
	}
	if !snap.Encoder.A || snap.Encoder.B || !snap.Encoder.C {
		t.Errorf("unexpected levels: %+v", snap.Encoder)
	}

	tr.InvalidateEncoder()
	if tr.Snapshot().EncoderValid {
		t.Error("expected EncoderValid=false after InvalidateEncoder")
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), pins.Build(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, pins.Build(), Config{})
	tr.SetClock(fixedClock(start.Add(90 * time.Second)))

	if got := tr.Snapshot().Uptime(); got != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), pins.Build(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.UpdateEncoder(gpio.EncoderLevels{A: i%2 == 0})
			tr.SetMQTTConnected(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 100, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPAddr: ":80", Chip: "gpiochip0", Claimed: true}
	tr := NewTracker(start, pins.For(pins.Reversed), cfg)
	tr.SetClock(fixedClock(start.Add(3661 * time.Second)))
	tr.UpdateEncoder(gpio.EncoderLevels{A: true, B: false, C: true})
	tr.SetMQTTConnected(true)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.Event != "" || s.Reason != "" {
		t.Errorf("expected no event/reason, got %q/%q", s.Event, s.Reason)
	}
	if s.EncoderDirection != "reversed" {
		t.Errorf("EncoderDirection: got %q", s.EncoderDirection)
	}
	if s.SharedPins != 2 {
		t.Errorf("SharedPins: got %d, want 2", s.SharedPins)
	}
	if s.Encoder == nil || s.Encoder.A != "HIGH" || s.Encoder.B != "LOW" || s.Encoder.C != "HIGH" {
		t.Errorf("Encoder: got %+v", s.Encoder)
	}
	if s.UptimeSeconds != 3661 {
		t.Errorf("UptimeSeconds: got %d, want 3661", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("MQTT: got %+v", s.MQTT)
	}
	if !s.GPIO.Claimed || s.GPIO.Chip != "gpiochip0" {
		t.Errorf("GPIO: got %+v", s.GPIO)
	}
	if s.Config.HeartbeatMs != 900000 {
		t.Errorf("Config.HeartbeatMs: got %d", s.Config.HeartbeatMs)
	}
}

func TestFormatJSONNoEncoder(t *testing.T) {
	tr := NewTracker(time.Now(), pins.Build(), Config{Chip: "gpiochip0"})

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["status"]["encoder"]; ok {
		t.Error("encoder should be omitted when levels are unknown")
	}
	gpioStatus := raw["status"]["gpio"].(map[string]any)
	if _, ok := gpioStatus["chip"]; ok {
		t.Error("chip should be omitted when lines are not claimed")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), pins.Build(), Config{})

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q", sj.Status.Reason)
	}
}

func TestFormatPinMap(t *testing.T) {
	ts := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

	var pj PinMapJSON
	if err := json.Unmarshal(FormatPinMap(pins.For(pins.Forward), ts), &pj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	pm := pj.PinMap
	if pm.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("Timestamp: got %q", pm.Timestamp)
	}
	if pm.EncoderDirection != "forward" || pm.DirectionFlag != 1 {
		t.Errorf("direction: got %q/%d", pm.EncoderDirection, pm.DirectionFlag)
	}
	if len(pm.Pins) != len(pins.Roles()) {
		t.Fatalf("Pins: got %d entries, want %d", len(pm.Pins), len(pins.Roles()))
	}

	fan := pm.Pins[pins.RoleFanPWM]
	if fan.Symbol != "PIN_FAN_PWM" || fan.Pin != "A3" || fan.Number != 17 || fan.Peripheral != "fan" {
		t.Errorf("fan pwm: got %+v", fan)
	}
	encA := pm.Pins[pins.RoleEncoderA]
	if encA.Pin != "9" || !encA.Input {
		t.Errorf("enc a: got %+v", encA)
	}

	if len(pm.Shared) != 2 {
		t.Fatalf("Shared: got %d, want 2", len(pm.Shared))
	}
	if pm.Shared[0].Pin != "4" || pm.Shared[0].Kind != "shared" {
		t.Errorf("shared[0]: got %+v", pm.Shared[0])
	}
	if pm.Shared[1].Pin != "A3" || pm.Shared[1].Kind != "alias" {
		t.Errorf("shared[1]: got %+v", pm.Shared[1])
	}
}

func TestFormatPinMapIndentOmitsTimestamp(t *testing.T) {
	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatPinMapIndent(pins.For(pins.Reversed)), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["pinmap"]["timestamp"]; ok {
		t.Error("timestamp should be omitted")
	}
	if raw["pinmap"]["encoder_direction_flag"] != float64(0) {
		t.Errorf("flag: got %v", raw["pinmap"]["encoder_direction_flag"])
	}
}
