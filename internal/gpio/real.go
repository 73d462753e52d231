//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"
)

// RealButton reads the button from actual hardware using Linux GPIO character device.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests pin as an input with the internal pull-up enabled,
// so an open switch reads high.
func NewRealButton(pin int) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// Read returns the raw level: true = high (released).
func (b *RealButton) Read() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v != 0, nil
}

// Close releases GPIO resources.
func (b *RealButton) Close() error {
	var errs []error
	if b.line != nil {
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealActuator drives the indicator LEDs, progress LEDs and buzzer.
// With activeLow set every output is inverted at the line level, so callers
// always deal in logical on/off.
type RealActuator struct {
	chip     *gpiocdev.Chip
	focus    *gpiocdev.Line
	idle     *gpiocdev.Line
	rest     *gpiocdev.Line
	buzzer   *gpiocdev.Line
	progress [4]*gpiocdev.Line
	log      zerolog.Logger
}

// NewRealActuator requests all output lines, initially off.
func NewRealActuator(pins Pins, activeLow bool, logger zerolog.Logger) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	a := &RealActuator{chip: chip, log: logger}
	request := func(name string, pin int) (*gpiocdev.Line, error) {
		opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
		if activeLow {
			opts = append(opts, gpiocdev.AsActiveLow)
		}
		l, err := chip.RequestLine(pin, opts...)
		if err != nil {
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		return l, nil
	}

	if a.focus, err = request("focus", pins.Focus); err != nil {
		a.Close()
		return nil, err
	}
	if a.idle, err = request("idle", pins.Idle); err != nil {
		a.Close()
		return nil, err
	}
	if a.rest, err = request("rest", pins.Rest); err != nil {
		a.Close()
		return nil, err
	}
	// The buzzer is driven directly, not through the indicator polarity.
	if a.buzzer, err = chip.RequestLine(pins.Buzzer, gpiocdev.AsOutput(0)); err != nil {
		a.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pins.Buzzer, err)
	}
	for i, pin := range pins.Progress {
		if a.progress[i], err = request(fmt.Sprintf("progress[%d]", i), pin); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// SetIndication lights the focus, idle and rest indicators.
func (a *RealActuator) SetIndication(focus, idle, rest bool) {
	a.set("focus", a.focus, focus)
	a.set("idle", a.idle, idle)
	a.set("rest", a.rest, rest)
}

// PulseAlert sounds the buzzer for d. It blocks for d.
func (a *RealActuator) PulseAlert(d time.Duration) {
	a.set("buzzer", a.buzzer, true)
	time.Sleep(d)
	a.set("buzzer", a.buzzer, false)
}

// SetProgress lights the first n progress LEDs.
func (a *RealActuator) SetProgress(n int) {
	for i, l := range a.progress {
		a.set("progress", l, i < n)
	}
}

func (a *RealActuator) set(name string, l *gpiocdev.Line, on bool) {
	v := 0
	if on {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		a.log.Error().Err(err).Str("line", name).Int("value", v).Msg("gpio write failed")
	}
}

// Close turns every output off and releases the lines. Pins are returned to
// inputs so nothing is left driven across a reboot.
func (a *RealActuator) Close() error {
	var errs []error
	lines := []*gpiocdev.Line{a.focus, a.idle, a.rest, a.buzzer}
	lines = append(lines, a.progress[:]...)
	for _, l := range lines {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if a.chip != nil {
		if err := a.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
