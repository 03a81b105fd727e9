package web

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/pinmap/internal/status"
)

// collector exports tracker state on every scrape.
type collector struct {
	tracker *status.Tracker

	pinNumber *prometheus.Desc
	shared    *prometheus.Desc
	direction *prometheus.Desc
	encoder   *prometheus.Desc
	mqtt      *prometheus.Desc
	uptime    *prometheus.Desc
}

func newCollector(tracker *status.Tracker) *collector {
	return &collector{
		tracker: tracker,
		pinNumber: prometheus.NewDesc("pinmap_pin_number",
			"Digital pin number bound to each role.",
			[]string{"role", "symbol", "pin"}, nil),
		shared: prometheus.NewDesc("pinmap_shared_pin_roles",
			"Number of roles bound to a pin that carries more than one role.",
			[]string{"pin", "kind"}, nil),
		direction: prometheus.NewDesc("pinmap_encoder_direction_flag",
			"ENCODER_DIRECTION value in effect (1 = forward).",
			nil, nil),
		encoder: prometheus.NewDesc("pinmap_encoder_level",
			"Raw encoder line level (1 = high). Absent when the lines are not read.",
			[]string{"channel"}, nil),
		mqtt: prometheus.NewDesc("pinmap_mqtt_connected",
			"Whether the MQTT broker connection is up.",
			nil, nil),
		uptime: prometheus.NewDesc("pinmap_uptime_seconds",
			"Seconds since the daemon started.",
			nil, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pinNumber
	ch <- c.shared
	ch <- c.direction
	ch <- c.encoder
	ch <- c.mqtt
	ch <- c.uptime
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.tracker.Snapshot()

	for _, a := range snap.Map.Assignments() {
		ch <- prometheus.MustNewConstMetric(c.pinNumber, prometheus.GaugeValue,
			float64(a.Pin.Number()), a.Role.String(), a.Role.Symbol(), a.Pin.String())
	}
	for _, s := range snap.Map.Shares() {
		ch <- prometheus.MustNewConstMetric(c.shared, prometheus.GaugeValue,
			float64(len(s.Roles)), s.Pin.String(), string(s.Kind))
	}
	ch <- prometheus.MustNewConstMetric(c.direction, prometheus.GaugeValue,
		float64(snap.Map.Direction.Flag()))

	if snap.EncoderValid {
		for _, l := range []struct {
			name string
			high bool
		}{
			{"a", snap.Encoder.A},
			{"b", snap.Encoder.B},
			{"c", snap.Encoder.C},
		} {
			ch <- prometheus.MustNewConstMetric(c.encoder, prometheus.GaugeValue, boolFloat(l.high), l.name)
		}
	}

	ch <- prometheus.MustNewConstMetric(c.mqtt, prometheus.GaugeValue, boolFloat(snap.MQTTConnected))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, snap.Uptime().Seconds())
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
