// Package status provides a thread-safe status tracker for the pinmap daemon.
// It is read by the HTTP handlers, the metrics collector and MQTT events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pinmap/internal/gpio"
	"github.com/sweeney/pinmap/internal/pins"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Chip        string
	Claimed     bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Map           pins.Map
	Encoder       gpio.EncoderLevels
	EncoderValid  bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker for the resolved map.
func NewTracker(startTime time.Time, m pins.Map, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Map:       m,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetClock replaces the time source used by Snapshot. Tests only.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// UpdateEncoder records the latest encoder line levels.
func (t *Tracker) UpdateEncoder(levels gpio.EncoderLevels) {
	t.mu.Lock()
	t.snap.Encoder = levels
	t.snap.EncoderValid = true
	t.mu.Unlock()
}

// InvalidateEncoder marks the encoder levels as unknown, e.g. after a read error.
func (t *Tracker) InvalidateEncoder() {
	t.mu.Lock()
	t.snap.EncoderValid = false
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	now := t.now
	t.mu.RUnlock()
	s.Now = now()
	return s
}
