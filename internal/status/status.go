// Package status provides a thread-safe status tracker for the microwave daemon.
// The control loop writes it once per tick; HTTP and WebSocket handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/microwave/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Sensors     string // "sim" or "gpio"
	Outputs     string // "gpio" or "log"
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Oven          logic.Snapshot
	Ticks         uint64
	Counts        logic.EventCounts
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
	mu      sync.RWMutex
	snap    Snapshot
	version uint64
	changed chan struct{}
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Oven:      logic.NewShared().Snapshot(),
		},
		changed: make(chan struct{}),
	}
}

// Update records the oven state, scheduler tick count and event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(oven logic.Snapshot, ticks uint64, counts logic.EventCounts) {
	t.mu.Lock()
	moved := oven != t.snap.Oven || counts != t.snap.Counts
	t.snap.Oven = oven
	t.snap.Ticks = ticks
	t.snap.Counts = counts
	if moved {
		t.notifyLocked()
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	if t.snap.MQTTConnected != connected {
		t.snap.MQTTConnected = connected
		t.notifyLocked()
	}
	t.mu.Unlock()
}

// notifyLocked wakes every Changed waiter. Caller holds mu.
func (t *Tracker) notifyLocked() {
	t.version++
	close(t.changed)
	t.changed = make(chan struct{})
}

// Changed returns the current version and a channel that is closed on the
// next change of oven state, counts or connectivity.
func (t *Tracker) Changed() (uint64, <-chan struct{}) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version, t.changed
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
