package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeney/pinmap/internal/gpio"
	"github.com/sweeney/pinmap/internal/mqtt"
	"github.com/sweeney/pinmap/internal/pins"
	"github.com/sweeney/pinmap/internal/status"
	"github.com/sweeney/pinmap/internal/web"
)

// expected is the pin table for each ENCODER_DIRECTION setting.
var expected = map[pins.EncoderDirection]map[string]string{
	pins.Forward: {
		"PIN_MOTOR_EN": "8", "PIN_MOTOR_STEP": "7", "PIN_MOTOR_DIR": "4",
		"PIN_FAN_PWM": "A3", "PIN_BUZZER": "12", "PIN_FAN": "A3",
		"PIN_ENC_A": "9", "PIN_ENC_B": "10", "PIN_ENC_C": "11",
		"PIN_OLED_CLK": "5", "PIN_OLED_DAT": "4", "PIN_OLED_CS": "16",
	},
	pins.Reversed: {
		"PIN_MOTOR_EN": "8", "PIN_MOTOR_STEP": "7", "PIN_MOTOR_DIR": "4",
		"PIN_FAN_PWM": "A3", "PIN_BUZZER": "12", "PIN_FAN": "A3",
		"PIN_ENC_A": "10", "PIN_ENC_B": "9", "PIN_ENC_C": "11",
		"PIN_OLED_CLK": "5", "PIN_OLED_DAT": "4", "PIN_OLED_CS": "16",
	},
}

func symbolsToPins(t *testing.T, data []byte) map[string]string {
	t.Helper()
	var pj status.PinMapJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	out := make(map[string]string)
	for _, p := range pj.PinMap.Pins {
		out[p.Symbol] = p.Pin
	}
	return out
}

func compareTable(t *testing.T, source string, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d symbols, want %d", source, len(got), len(want))
	}
	for sym, pin := range want {
		if got[sym] != pin {
			t.Errorf("%s: %s = %q, want %q", source, sym, got[sym], pin)
		}
	}
}

// TestIntegrationPinMapSurfaces checks that MQTT and HTTP publish the same
// table for each encoder direction.
func TestIntegrationPinMapSurfaces(t *testing.T) {
	for dir, want := range expected {
		t.Run(dir.String(), func(t *testing.T) {
			m := pins.For(dir)

			publisher := mqtt.NewFakePublisher()
			if err := publisher.PublishPinMap(m, time.Now()); err != nil {
				t.Fatalf("publish error: %v", err)
			}
			compareTable(t, "mqtt", symbolsToPins(t, publisher.Payloads[0]), want)

			tracker := status.NewTracker(time.Now(), m, status.Config{})
			ts := httptest.NewServer(web.New(":0", tracker).Handler())
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/pins.json")
			if err != nil {
				t.Fatalf("GET /pins.json: %v", err)
			}
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			compareTable(t, "http", symbolsToPins(t, body), want)
		})
	}
}

// TestIntegrationClaimedLinesFeedStatus drives fake lines into the tracker
// and reads the levels back through the status endpoint.
func TestIntegrationClaimedLinesFeedStatus(t *testing.T) {
	lines := gpio.NewFakeLines([]gpio.EncoderLevels{{A: true, B: false, C: true}})
	tracker := status.NewTracker(time.Now(), pins.Build(), status.Config{Claimed: true, Chip: "gpiochip0"})

	levels, err := lines.ReadEncoder()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	tracker.UpdateEncoder(levels)

	if err := lines.Set(pins.RoleMotorEnable, false); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if lines.Levels[pins.RoleMotorEnable] {
		t.Error("motor enable should be low after enabling the driver")
	}

	ts := httptest.NewServer(web.New(":0", tracker).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.Encoder == nil {
		t.Fatal("expected encoder levels")
	}
	if sj.Status.Encoder.A != "HIGH" || sj.Status.Encoder.B != "LOW" || sj.Status.Encoder.C != "HIGH" {
		t.Errorf("unexpected encoder levels: %+v", sj.Status.Encoder)
	}
	if !sj.Status.GPIO.Claimed || sj.Status.GPIO.Chip != "gpiochip0" {
		t.Errorf("unexpected gpio status: %+v", sj.Status.GPIO)
	}
}
