package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

type nopActuator struct{}

func (nopActuator) SetIndication(focus, idle, rest bool) {}
func (nopActuator) PulseAlert(d time.Duration)            {}
func (nopActuator) SetProgress(n int)                     {}

type nopSink struct{}

func (nopSink) StageField(index int, value int64) {}
func (nopSink) Flush() error                      { return nil }

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 10, WorkMs: 1500000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 10 {
		t.Errorf("Config.PollMs: got %d, want 10", snap.Config.PollMs)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.State != "" {
		t.Errorf("expected empty State before first update, got %q", snap.State)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(View{
		State:          logic.StateBreak,
		Awaiting:       true,
		Progress:       2,
		Metrics:        logic.Metrics{CompletedCycles: 2, CumulativeFocus: 50 * time.Minute},
		PhaseElapsed:   6 * time.Minute,
		PhaseRemaining: 0,
	})

	snap := tr.Snapshot()
	if snap.State != logic.StateBreak {
		t.Errorf("State: got %q, want BREAK", snap.State)
	}
	if !snap.Awaiting {
		t.Error("expected Awaiting=true")
	}
	if snap.Progress != 2 {
		t.Errorf("Progress: got %d, want 2", snap.Progress)
	}
	if snap.Metrics.CompletedCycles != 2 {
		t.Errorf("Metrics.CompletedCycles: got %d, want 2", snap.Metrics.CompletedCycles)
	}
	if snap.PhaseElapsed != 6*time.Minute {
		t.Errorf("PhaseElapsed: got %v, want 6m", snap.PhaseElapsed)
	}
}

func TestCapture(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	cfg := logic.DefaultConfig()
	cfg.Debounce = 0
	m := logic.NewMachine(cfg, nopActuator{}, nopSink{}, start)
	m.Init()

	v := Capture(m, start)
	if v.State != logic.StateIdle || v.PhaseElapsed != 0 || v.PhaseRemaining != 0 {
		t.Errorf("unexpected idle view: %+v", v)
	}

	m.Tick(false, start)
	v = Capture(m, start.Add(10*time.Minute))
	if v.State != logic.StateWork {
		t.Fatalf("State: got %q, want WORK", v.State)
	}
	if !v.ButtonPressed {
		t.Error("expected ButtonPressed while held")
	}
	if v.PhaseElapsed != 10*time.Minute {
		t.Errorf("PhaseElapsed: got %v, want 10m", v.PhaseElapsed)
	}
	if v.PhaseRemaining != cfg.Work-10*time.Minute {
		t.Errorf("PhaseRemaining: got %v, want %v", v.PhaseRemaining, cfg.Work-10*time.Minute)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	net := &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"}
	tr.SetNetwork(net)

	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected non-nil Network")
	}
	if snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want %q", snap.Network.IP, "192.168.1.42")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(View{State: logic.StateWork, Progress: 1})

	snap1 := tr.Snapshot()

	tr.Update(View{State: logic.StateIdle})

	if snap1.State != logic.StateWork {
		t.Error("snapshot should be a copy; State was modified")
	}
	if snap1.Progress != 1 {
		t.Error("snapshot should be a copy; Progress was modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		View: View{
			State:          logic.StateWork,
			Progress:       3,
			PhaseElapsed:   90*time.Second + 400*time.Millisecond,
			PhaseRemaining: 23*time.Minute + 29*time.Second + 600*time.Millisecond,
			Metrics: logic.Metrics{
				CompletedCycles: 3,
				SessionElapsed:  95 * time.Minute,
				CumulativeFocus: 75 * time.Minute,
				CumulativeRest:  15 * time.Minute,
			},
		},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, DebounceMs: 30, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", Topic: "focus-timer", HTTPAddr: ":80"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.State != "WORK" {
		t.Errorf("State: got %q, want WORK", s.State)
	}
	if s.Progress != 3 {
		t.Errorf("Progress: got %d, want 3", s.Progress)
	}
	if s.PhaseElapsedSeconds != 90 {
		t.Errorf("PhaseElapsedSeconds: got %d, want 90", s.PhaseElapsedSeconds)
	}
	if s.PhaseRemainingSeconds != 1409 {
		t.Errorf("PhaseRemainingSeconds: got %d, want 1409", s.PhaseRemainingSeconds)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if !s.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if s.Metrics != (MetricsJSON{CompletedCycles: 3, SessionSeconds: 5700, FocusSeconds: 4500, RestSeconds: 900}) {
		t.Errorf("unexpected metrics: %+v", s.Metrics)
	}
	if s.Config.Topic != "focus-timer" {
		t.Errorf("Config.Topic: got %q", s.Config.Topic)
	}
	// Event and Reason should be omitted
	if s.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", s.Event)
	}
	if s.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", s.Reason)
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	json.Unmarshal(data, &parsed)

	if parsed.Status.State != "UNKNOWN" {
		t.Errorf("State: got %q, want UNKNOWN", parsed.Status.State)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		View:          View{State: logic.StateBreak, Awaiting: true},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.State != "BREAK" || !parsed.Status.AwaitingResume {
		t.Errorf("expected BREAK awaiting resume, got %q awaiting=%v", parsed.Status.State, parsed.Status.AwaitingResume)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		View:      View{State: logic.StateIdle},
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	snap := Snapshot{
		View:      View{State: logic.StateIdle},
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		Network:   &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"},
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	json.Unmarshal(data, &parsed)

	if parsed.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if parsed.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", parsed.Status.Network.IP)
	}
	if parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network.SSID: got %q, want MyNet", parsed.Status.Network.SSID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(View{State: logic.StateWork, Progress: i % 5})
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
