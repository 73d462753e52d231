// Package gpio provides button input and indicator output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Button reads the raw level of the push button.
type Button interface {
	// Read returns the raw pin level. The button is wired with a pull-up:
	// true (high) = released, false (low) = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins is the BCM pin assignment for the timer hardware.
type Pins struct {
	Button   int    `yaml:"button" toml:"button"`
	Focus    int    `yaml:"focus" toml:"focus"`
	Idle     int    `yaml:"idle" toml:"idle"`
	Rest     int    `yaml:"rest" toml:"rest"`
	Buzzer   int    `yaml:"buzzer" toml:"buzzer"`
	Progress [4]int `yaml:"progress" toml:"progress"`
}

// DefaultPins returns the reference wiring (BCM numbering).
func DefaultPins() Pins {
	return Pins{
		Button:   17,
		Focus:    22,
		Idle:     27,
		Rest:     23,
		Buzzer:   18,
		Progress: [4]int{5, 6, 13, 19},
	}
}

// Chip is the GPIO character device used on Raspberry Pi.
const Chip = "gpiochip0"
