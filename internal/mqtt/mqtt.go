// Package mqtt provides MQTT telemetry publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// DefaultTopicPrefix is the topic root when none is configured.
const DefaultTopicPrefix = "focus-timer"

// Topics holds the MQTT topics the daemon publishes to.
type Topics struct {
	Metrics string // session metric snapshots
	System  string // lifecycle events
}

// NewTopics derives the topic set from a prefix.
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{
		Metrics: prefix + "/metrics",
		System:  prefix + "/system",
	}
}

// Publisher publishes telemetry to MQTT.
type Publisher interface {
	// PublishMetrics sends one metrics snapshot to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishMetrics(event MetricsEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// MetricsEvent is one flushed set of telemetry fields.
type MetricsEvent struct {
	Timestamp time.Time
	// Fields are in sink order; Fields[0] is logic.FieldCompletedCycles.
	Fields [logic.FieldCount]int64
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload is the MQTT message payload for a metrics snapshot.
type Payload struct {
	Metrics MetricsPayload `json:"metrics"`
}

// MetricsPayload contains the snapshot fields, already in seconds.
type MetricsPayload struct {
	Timestamp       string `json:"timestamp"`
	CompletedCycles int64  `json:"completed_cycles"`
	SessionSeconds  int64  `json:"session_seconds"`
	FocusSeconds    int64  `json:"focus_seconds"`
	RestSeconds     int64  `json:"rest_seconds"`
}

// FormatPayload creates the JSON payload for a metrics snapshot.
func FormatPayload(event MetricsEvent) ([]byte, error) {
	f := event.Fields
	payload := Payload{
		Metrics: MetricsPayload{
			Timestamp:       event.Timestamp.UTC().Format(time.RFC3339),
			CompletedCycles: f[logic.FieldCompletedCycles-1],
			SessionSeconds:  f[logic.FieldSessionSeconds-1],
			FocusSeconds:    f[logic.FieldFocusSeconds-1],
			RestSeconds:     f[logic.FieldRestSeconds-1],
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
