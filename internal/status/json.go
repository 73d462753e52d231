package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event                 string       `json:"event,omitempty"`
	Reason                string       `json:"reason,omitempty"`
	State                 string       `json:"state"`
	AwaitingResume        bool         `json:"awaiting_resume"`
	Progress              int          `json:"progress"`
	ButtonPressed         bool         `json:"button_pressed"`
	PhaseElapsedSeconds   int64        `json:"phase_elapsed_seconds"`
	PhaseRemainingSeconds int64        `json:"phase_remaining_seconds"`
	UptimeSeconds         int64        `json:"uptime_seconds"`
	StartTime             string       `json:"start_time"`
	Timestamp             string       `json:"timestamp"`
	MQTT                  MQTTStatus   `json:"mqtt"`
	Metrics               MetricsJSON  `json:"metrics"`
	Network               *NetworkJSON `json:"network,omitempty"`
	Config                ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// MetricsJSON is the JSON representation of the session metrics.
type MetricsJSON struct {
	CompletedCycles uint64 `json:"completed_cycles"`
	SessionSeconds  int64  `json:"session_seconds"`
	FocusSeconds    int64  `json:"focus_seconds"`
	RestSeconds     int64  `json:"rest_seconds"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	WorkMs      int64  `json:"work_ms"`
	BreakMs     int64  `json:"break_ms"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	CooldownMs  int64  `json:"cooldown_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	Topic       string `json:"topic"`
	HTTPAddr    string `json:"http_addr"`
}

func seconds(d time.Duration) int64 {
	return int64(d.Truncate(time.Second).Seconds())
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		State:                 state,
		AwaitingResume:        snap.Awaiting,
		Progress:              snap.Progress,
		ButtonPressed:         snap.ButtonPressed,
		PhaseElapsedSeconds:   seconds(snap.PhaseElapsed),
		PhaseRemainingSeconds: seconds(snap.PhaseRemaining),
		UptimeSeconds:         seconds(snap.Uptime()),
		StartTime:             snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:             snap.Now.UTC().Format(time.RFC3339),
		MQTT:                  MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Metrics: MetricsJSON{
			CompletedCycles: snap.Metrics.CompletedCycles,
			SessionSeconds:  seconds(snap.Metrics.SessionElapsed),
			FocusSeconds:    seconds(snap.Metrics.CumulativeFocus),
			RestSeconds:     seconds(snap.Metrics.CumulativeRest),
		},
		Config: ConfigJSON{
			WorkMs:      snap.Config.WorkMs,
			BreakMs:     snap.Config.BreakMs,
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			CooldownMs:  snap.Config.CooldownMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			Topic:       snap.Config.Topic,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
