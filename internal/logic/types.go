// Package logic contains the pure control logic for the focus timer.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State is the current mode of the timer.
type State string

const (
	StateIdle  State = "IDLE"
	StateWork  State = "WORK"
	StateBreak State = "BREAK"
)

// EventType identifies a state machine transition.
type EventType string

const (
	EventSessionStart  EventType = "SESSION_START"  // IDLE -> WORK
	EventFocusComplete EventType = "FOCUS_COMPLETE" // WORK -> BREAK
	EventBreakElapsed  EventType = "BREAK_ELAPSED"  // BREAK, now awaiting resume
	EventResume        EventType = "RESUME"         // BREAK -> WORK
	EventCancel        EventType = "CANCEL"         // WORK/BREAK -> IDLE
)

// Event describes a transition taken during a tick.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      State
	To        State
	// Metrics is set when the transition flushed a snapshot to the sink.
	Metrics *Metrics
	// FlushErr is whatever the sink reported. It never affects state.
	FlushErr error
}

// Telemetry field indices, in sink order.
const (
	FieldCompletedCycles = 1
	FieldSessionSeconds  = 2
	FieldFocusSeconds    = 3
	FieldRestSeconds     = 4

	FieldCount = 4
)

// ProgressCap is the number of discrete progress indicators.
const ProgressCap = 4

// Actuator turns abstract intents into indicator and buzzer output.
// Polarity and wiring are the implementation's concern.
type Actuator interface {
	// SetIndication lights the focus, idle and rest indicators.
	SetIndication(focus, idle, rest bool)
	// PulseAlert sounds the buzzer for d. It may block for d.
	PulseAlert(d time.Duration)
	// SetProgress lights n of the ProgressCap progress indicators.
	SetProgress(n int)
}

// Sink accepts staged numeric fields and transmits them as one update.
// Delivery is best-effort.
type Sink interface {
	StageField(index int, value int64)
	Flush() error
}

// Config holds the timing parameters of the machine.
type Config struct {
	Work     time.Duration // focus phase length
	Break    time.Duration // minimum rest phase length
	Debounce time.Duration
	Cooldown time.Duration
	Blink    time.Duration // toggle interval while awaiting resume
	Alert    time.Duration // buzzer pulse length
}

// DefaultConfig returns the stock 25/5 timing.
func DefaultConfig() Config {
	return Config{
		Work:     25 * time.Minute,
		Break:    5 * time.Minute,
		Debounce: 30 * time.Millisecond,
		Cooldown: 250 * time.Millisecond,
		Blink:    400 * time.Millisecond,
		Alert:    150 * time.Millisecond,
	}
}
