package gpio

import (
	"errors"
	"testing"
	"time"
)

func TestFakeButtonRead(t *testing.T) {
	f := NewFakeButton([]bool{true, false, false})

	want := []bool{true, false, false, false} // last level repeats
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestFakeButtonNoLevels(t *testing.T) {
	f := NewFakeButton(nil)

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no levels")
	}
}

func TestFakeButtonError(t *testing.T) {
	f := NewFakeButton([]bool{false})
	f.ReadError = errors.New("simulated error")

	level, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if !level {
		t.Error("failed read should report the released level")
	}
}

func TestFakeButtonCloseAndReset(t *testing.T) {
	f := NewFakeButton([]bool{false, true})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	if level, _ := f.Read(); level != false {
		t.Error("after reset: expected first level again")
	}
}

func TestFakeActuatorRecords(t *testing.T) {
	f := NewFakeActuator()

	if f.Current() != (Indication{}) {
		t.Error("expected all-off before any call")
	}
	if f.CurrentProgress() != 0 {
		t.Error("expected progress 0 before any call")
	}

	f.SetIndication(true, false, false)
	f.SetIndication(false, false, true)
	f.PulseAlert(150 * time.Millisecond)
	f.SetProgress(2)

	if len(f.Indications) != 2 {
		t.Fatalf("expected 2 indications, got %d", len(f.Indications))
	}
	if f.Current() != (Indication{Rest: true}) {
		t.Errorf("unexpected current indication: %+v", f.Current())
	}
	if len(f.Pulses) != 1 || f.Pulses[0] != 150*time.Millisecond {
		t.Errorf("unexpected pulses: %v", f.Pulses)
	}
	if f.CurrentProgress() != 2 {
		t.Errorf("expected progress 2, got %d", f.CurrentProgress())
	}
}

func TestDefaultPinsDistinct(t *testing.T) {
	p := DefaultPins()
	seen := map[int]string{}
	check := func(name string, pin int) {
		if other, dup := seen[pin]; dup {
			t.Errorf("pin %d used by both %s and %s", pin, other, name)
		}
		seen[pin] = name
	}
	check("button", p.Button)
	check("focus", p.Focus)
	check("idle", p.Idle)
	check("rest", p.Rest)
	check("buzzer", p.Buzzer)
	for _, pin := range p.Progress {
		check("progress", pin)
	}
}
