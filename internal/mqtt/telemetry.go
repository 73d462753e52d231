package mqtt

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/focus-timer/internal/logic"
)

// Telemetry adapts a Publisher to the state machine's staged-field sink.
// Not safe for concurrent use; it lives on the control loop goroutine.
type Telemetry struct {
	pub    Publisher
	now    func() time.Time
	log    zerolog.Logger
	staged [logic.FieldCount]int64
	last   *MetricsEvent
}

// NewTelemetry creates a sink that stamps flushes with now().
func NewTelemetry(pub Publisher, now func() time.Time, logger zerolog.Logger) *Telemetry {
	return &Telemetry{pub: pub, now: now, log: logger}
}

// StageField sets field index (1-based) for the next flush.
// Indices outside 1..logic.FieldCount are dropped.
func (t *Telemetry) StageField(index int, value int64) {
	if index < 1 || index > logic.FieldCount {
		t.log.Warn().Int("index", index).Int64("value", value).Msg("telemetry field out of range")
		return
	}
	t.staged[index-1] = value
}

// Flush publishes all staged fields as one update and clears them.
func (t *Telemetry) Flush() error {
	event := MetricsEvent{
		Timestamp: t.now(),
		Fields:    t.staged,
	}
	t.staged = [logic.FieldCount]int64{}
	t.last = &event
	return t.pub.PublishMetrics(event)
}

// Last returns the most recent flushed event, or nil before the first flush.
func (t *Telemetry) Last() *MetricsEvent {
	return t.last
}
