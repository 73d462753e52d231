package logic

import "time"

// Metrics is an immutable snapshot of session counters.
type Metrics struct {
	CompletedCycles uint64
	SessionElapsed  time.Duration
	CumulativeFocus time.Duration
	CumulativeRest  time.Duration
}

// Fields returns the telemetry values in sink order (FieldCompletedCycles
// first). Durations are truncated to whole seconds.
func (m Metrics) Fields() [FieldCount]int64 {
	return [FieldCount]int64{
		int64(m.CompletedCycles),
		int64(m.SessionElapsed / time.Second),
		int64(m.CumulativeFocus / time.Second),
		int64(m.CumulativeRest / time.Second),
	}
}

// Accumulator holds cumulative session counters.
// Totals are never reset by the machine; only the display window is.
type Accumulator struct {
	epoch   time.Time
	metrics Metrics
	window  uint64 // cycles since the last ResetCycleWindow
}

// NewAccumulator creates an accumulator whose session clock starts at epoch
// (normally process boot).
func NewAccumulator(epoch time.Time) *Accumulator {
	return &Accumulator{epoch: epoch}
}

// RecordFocusCompletion counts one finished work phase of length d.
func (a *Accumulator) RecordFocusCompletion(d time.Duration) {
	a.metrics.CompletedCycles++
	a.metrics.CumulativeFocus += nonNegative(d)
	a.window++
}

// RecordRestCompletion adds a finished rest phase of length d.
func (a *Accumulator) RecordRestCompletion(d time.Duration) {
	a.metrics.CumulativeRest += nonNegative(d)
}

// TouchSessionElapsed stamps the session clock. The value is the time since
// the epoch, not since the current session started.
func (a *Accumulator) TouchSessionElapsed(now time.Time) {
	a.metrics.SessionElapsed = nonNegative(now.Sub(a.epoch))
}

// Snapshot returns a copy of the current counters.
func (a *Accumulator) Snapshot() Metrics {
	return a.metrics
}

// ResetCycleWindow zeroes the display progress only.
func (a *Accumulator) ResetCycleWindow() {
	a.window = 0
}

// Progress is the number of progress indicators to light, in [0, ProgressCap].
func (a *Accumulator) Progress() int {
	if a.window > ProgressCap {
		return ProgressCap
	}
	return int(a.window)
}

// Counters are unsigned in the reference model; a clock that runs
// backwards contributes nothing rather than a negative value.
func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
