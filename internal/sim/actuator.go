package sim

import (
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// actuator renders machine output to the terminal model. The alert is
// non-blocking: the bell stays lit until the pulse would have ended.
type actuator struct {
	focus, idle, rest bool
	progress          int
	pulses            int

	at        time.Time // set by the model before each Tick
	bellUntil time.Time
}

func (a *actuator) SetIndication(focus, idle, rest bool) {
	a.focus, a.idle, a.rest = focus, idle, rest
}

func (a *actuator) PulseAlert(d time.Duration) {
	a.pulses++
	a.bellUntil = a.at.Add(d)
}

func (a *actuator) SetProgress(n int) {
	if n < 0 {
		n = 0
	}
	if n > logic.ProgressCap {
		n = logic.ProgressCap
	}
	a.progress = n
}

func (a *actuator) ringing(now time.Time) bool {
	return now.Before(a.bellUntil)
}

// sink records flushes for display and forwards them to next, if set.
type sink struct {
	next    logic.Sink
	staged  [logic.FieldCount]int64
	last    [logic.FieldCount]int64
	flushes int
	err     error
}

func (s *sink) StageField(index int, value int64) {
	if index >= 1 && index <= logic.FieldCount {
		s.staged[index-1] = value
	}
	if s.next != nil {
		s.next.StageField(index, value)
	}
}

func (s *sink) Flush() error {
	s.last = s.staged
	s.staged = [logic.FieldCount]int64{}
	s.flushes++
	s.err = nil
	if s.next != nil {
		s.err = s.next.Flush()
	}
	return s.err
}
