//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(pin int) (*RealButton, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (b *RealButton) Read() (bool, error) {
	return true, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (b *RealButton) Close() error {
	return nil
}

// RealActuator is not available on non-Linux platforms.
type RealActuator struct{}

// NewRealActuator returns an error on non-Linux platforms.
func NewRealActuator(pins Pins, activeLow bool, logger zerolog.Logger) (*RealActuator, error) {
	return nil, errUnsupported
}

func (a *RealActuator) SetIndication(focus, idle, rest bool) {}
func (a *RealActuator) PulseAlert(d time.Duration)            {}
func (a *RealActuator) SetProgress(n int)                     {}
func (a *RealActuator) Close() error                          { return nil }
