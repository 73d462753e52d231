package logic

import "time"

// PhaseTimer tracks elapsed time within a phase without blocking.
// The zero value is a timer that was never started, which counts as expired.
type PhaseTimer struct {
	start  time.Time
	target time.Duration
	active bool
}

// Start begins a phase at now with the given target duration.
func (p *PhaseTimer) Start(now time.Time, target time.Duration) {
	p.start = now
	p.target = target
	p.active = true
}

// Elapsed returns the time since Start, or 0 if never started.
func (p PhaseTimer) Elapsed(now time.Time) time.Duration {
	if !p.active {
		return 0
	}
	return now.Sub(p.start)
}

// Expired reports whether the target has been reached.
func (p PhaseTimer) Expired(now time.Time) bool {
	if !p.active {
		return true
	}
	return p.Elapsed(now) >= p.target
}

// Target returns the configured phase length.
func (p PhaseTimer) Target() time.Duration {
	return p.target
}

// StartedAt returns the phase start and whether the timer is running.
func (p PhaseTimer) StartedAt() (time.Time, bool) {
	return p.start, p.active
}
