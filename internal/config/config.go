// Package config loads daemon settings from defaults, an optional YAML or TOML
// file, and command-line flags, in that order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/mqtt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete daemon configuration.
type Config struct {
	Work     time.Duration `yaml:"work" toml:"work"`
	Break    time.Duration `yaml:"break" toml:"break"`
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
	Cooldown time.Duration `yaml:"cooldown" toml:"cooldown"`
	Blink    time.Duration `yaml:"blink" toml:"blink"`
	Alert    time.Duration `yaml:"alert" toml:"alert"`

	Poll      time.Duration `yaml:"poll" toml:"poll"`
	Heartbeat time.Duration `yaml:"heartbeat" toml:"heartbeat"` // 0 disables

	Broker      string `yaml:"broker" toml:"broker"`
	ClientID    string `yaml:"client_id" toml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix" toml:"topic_prefix"`
	HTTPAddr    string `yaml:"http" toml:"http"` // empty disables
	LogLevel    string `yaml:"log_level" toml:"log_level"`

	ActiveLow bool      `yaml:"active_low" toml:"active_low"`
	Pins      gpio.Pins `yaml:"pins" toml:"pins"`
}

// Default returns the stock configuration.
func Default() Config {
	timing := logic.DefaultConfig()
	return Config{
		Work:        timing.Work,
		Break:       timing.Break,
		Debounce:    timing.Debounce,
		Cooldown:    timing.Cooldown,
		Blink:       timing.Blink,
		Alert:       timing.Alert,
		Poll:        10 * time.Millisecond,
		Heartbeat:   15 * time.Minute,
		Broker:      "tcp://192.168.1.200:1883",
		ClientID:    "focus-timer",
		TopicPrefix: mqtt.DefaultTopicPrefix,
		HTTPAddr:    ":80",
		LogLevel:    "info",
		Pins:        gpio.DefaultPins(),
	}
}

// Timing returns the state machine parameters.
func (c Config) Timing() logic.Config {
	return logic.Config{
		Work:     c.Work,
		Break:    c.Break,
		Debounce: c.Debounce,
		Cooldown: c.Cooldown,
		Blink:    c.Blink,
		Alert:    c.Alert,
	}
}

// Validate checks the configuration for values the control loop cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Work <= 0:
		return fmt.Errorf("%w: work must be positive, got %v", ErrInvalid, c.Work)
	case c.Break <= 0:
		return fmt.Errorf("%w: break must be positive, got %v", ErrInvalid, c.Break)
	case c.Poll <= 0:
		return fmt.Errorf("%w: poll must be positive, got %v", ErrInvalid, c.Poll)
	case c.Debounce < 0:
		return fmt.Errorf("%w: debounce must not be negative, got %v", ErrInvalid, c.Debounce)
	case c.Cooldown < c.Debounce:
		return fmt.Errorf("%w: cooldown (%v) must be >= debounce (%v)", ErrInvalid, c.Cooldown, c.Debounce)
	case c.Blink <= 0:
		return fmt.Errorf("%w: blink must be positive, got %v", ErrInvalid, c.Blink)
	case c.Alert < 0:
		return fmt.Errorf("%w: alert must not be negative, got %v", ErrInvalid, c.Alert)
	case c.Heartbeat < 0:
		return fmt.Errorf("%w: heartbeat must not be negative, got %v", ErrInvalid, c.Heartbeat)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q: %v", ErrInvalid, c.LogLevel, err)
	}

	pins := []int{c.Pins.Button, c.Pins.Focus, c.Pins.Idle, c.Pins.Rest, c.Pins.Buzzer}
	pins = append(pins, c.Pins.Progress[:]...)
	seen := make(map[int]bool, len(pins))
	for _, p := range pins {
		if p < 0 {
			return fmt.Errorf("%w: pin %d is negative", ErrInvalid, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: pin %d assigned twice", ErrInvalid, p)
		}
		seen[p] = true
	}
	return nil
}

// Load decodes the file at path over cfg. The format is chosen by extension:
// .yaml/.yml or .toml. Keys absent from the file keep their current value.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, filepath.Ext(path))
	}
	return nil
}

// Resolve produces the effective configuration. fs must already be parsed and
// bound to cfg. When path is set the file is loaded over cfg and any flag the
// user set explicitly is re-applied on top.
func Resolve(path string, cfg *Config, fs *pflag.FlagSet) error {
	if path != "" {
		changed := map[string]string{}
		fs.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})

		if err := Load(path, cfg); err != nil {
			return err
		}

		for name, value := range changed {
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("re-apply flag --%s: %w", name, err)
			}
		}
	}
	return cfg.Validate()
}

// BindFlags registers the flags that can override file settings.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.DurationVar(&cfg.Work, "work", cfg.Work, "Work phase length")
	fs.DurationVar(&cfg.Break, "break", cfg.Break, "Minimum break length")
	fs.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Button debounce window")
	fs.DurationVar(&cfg.Cooldown, "cooldown", cfg.Cooldown, "Minimum time between presses")
	fs.DurationVar(&cfg.Blink, "blink", cfg.Blink, "Blink interval while waiting to resume")
	fs.DurationVar(&cfg.Alert, "alert", cfg.Alert, "Buzzer pulse length")
	fs.DurationVar(&cfg.Poll, "poll", cfg.Poll, "Control loop tick interval")
	fs.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address")
	fs.StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "MQTT client ID")
	fs.StringVar(&cfg.TopicPrefix, "topic-prefix", cfg.TopicPrefix, "MQTT topic prefix")
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP status address (empty to disable)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.ActiveLow, "active-low", cfg.ActiveLow, "Indicator LEDs are wired active-low")
	fs.IntVar(&cfg.Pins.Button, "pin-button", cfg.Pins.Button, "BCM pin number for the button")
}
