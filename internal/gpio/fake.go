package gpio

import (
	"errors"
	"time"
)

// FakeButton is a test double that returns scripted raw levels.
type FakeButton struct {
	// Levels contains scripted raw levels (true = released).
	// Each call to Read() consumes the next level.
	Levels []bool

	// index tracks current position in Levels
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeButton creates a FakeButton with the given levels.
func NewFakeButton(levels []bool) *FakeButton {
	return &FakeButton{Levels: levels}
}

// Read returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeButton) Read() (bool, error) {
	if f.ReadError != nil {
		return true, f.ReadError
	}

	if len(f.Levels) == 0 {
		return true, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}

	return level, nil
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the first level.
func (f *FakeButton) Reset() {
	f.index = 0
	f.Closed = false
}

// Indication is one recorded SetIndication call.
type Indication struct {
	Focus bool
	Idle  bool
	Rest  bool
}

// FakeActuator records actuator intents for test assertions.
type FakeActuator struct {
	Indications []Indication
	Pulses      []time.Duration
	Progress    []int
	Closed      bool
}

// NewFakeActuator creates an empty FakeActuator.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// SetIndication records the indication.
func (f *FakeActuator) SetIndication(focus, idle, rest bool) {
	f.Indications = append(f.Indications, Indication{Focus: focus, Idle: idle, Rest: rest})
}

// PulseAlert records the pulse without blocking.
func (f *FakeActuator) PulseAlert(d time.Duration) {
	f.Pulses = append(f.Pulses, d)
}

// SetProgress records the progress count.
func (f *FakeActuator) SetProgress(n int) {
	f.Progress = append(f.Progress, n)
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.Closed = true
	return nil
}

// Current returns the most recent indication (all off if none).
func (f *FakeActuator) Current() Indication {
	if len(f.Indications) == 0 {
		return Indication{}
	}
	return f.Indications[len(f.Indications)-1]
}

// CurrentProgress returns the most recent progress count (0 if none).
func (f *FakeActuator) CurrentProgress() int {
	if len(f.Progress) == 0 {
		return 0
	}
	return f.Progress[len(f.Progress)-1]
}
