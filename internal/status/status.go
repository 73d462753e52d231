// Package status provides a thread-safe status tracker for the focus-timer daemon.
// It is read by the HTTP handlers and by the heartbeat publisher.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	WorkMs      int64
	BreakMs     int64
	PollMs      int64
	DebounceMs  int64
	CooldownMs  int64
	HeartbeatMs int64
	Broker      string
	Topic       string
	HTTPAddr    string
}

// View is the machine state captured on one tick.
type View struct {
	State          logic.State
	Awaiting       bool
	Progress       int
	ButtonPressed  bool
	Metrics        logic.Metrics
	PhaseElapsed   time.Duration
	PhaseRemaining time.Duration
}

// Capture reads the machine's observable state at now.
func Capture(m *logic.Machine, now time.Time) View {
	return View{
		State:          m.State(),
		Awaiting:       m.AwaitingResume(),
		Progress:       m.Progress(),
		ButtonPressed:  m.ButtonPressed(),
		Metrics:        m.Metrics(),
		PhaseElapsed:   m.PhaseElapsed(now),
		PhaseRemaining: m.PhaseRemaining(now),
	}
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	View
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
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

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update replaces the machine view. Called from runLoop on every tick.
func (t *Tracker) Update(v View) {
	t.mu.Lock()
	t.snap.View = v
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
