package logic

import "time"

// EdgeDetector turns a noisy, inverted-logic button level into press events.
// The idle level is high (true); pressed is low (false).
type EdgeDetector struct {
	debounce time.Duration
	cooldown time.Duration

	lastRaw    bool
	lastChange time.Time
	stable     bool
	lastEvent  time.Time
	fired      bool // lastEvent is valid
}

// NewEdgeDetector creates a detector that starts in the released state.
func NewEdgeDetector(debounce, cooldown time.Duration) *EdgeDetector {
	return &EdgeDetector{
		debounce: debounce,
		cooldown: cooldown,
		lastRaw:  true,
		stable:   true,
	}
}

// Poll consumes one raw sample and reports whether it completed a press.
// Must be called once per tick with a non-decreasing now.
func (d *EdgeDetector) Poll(raw bool, now time.Time) bool {
	if raw != d.lastRaw {
		d.lastRaw = raw
		d.lastChange = now
	}

	if now.Sub(d.lastChange) < d.debounce || raw == d.stable {
		return false
	}
	d.stable = raw

	// Only the commit to the pressed level is an event.
	if raw {
		return false
	}
	if d.fired && now.Sub(d.lastEvent) < d.cooldown {
		return false
	}
	d.lastEvent = now
	d.fired = true
	return true
}

// Pressed returns the accepted (debounced) level as a logical pressed flag.
func (d *EdgeDetector) Pressed() bool {
	return !d.stable
}
