// Command focus-timer runs a single-button focus/rest timer on a Raspberry Pi
// and publishes session metrics to MQTT.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sweeney/focus-timer/internal/config"
	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/mqtt"
	"github.com/sweeney/focus-timer/internal/sim"
	"github.com/sweeney/focus-timer/internal/status"
	"github.com/sweeney/focus-timer/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string

	root := &cobra.Command{
		Use:           "focus-timer",
		Short:         "Single-button focus/rest timer with MQTT telemetry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(configPath, &cfg, cmd.Flags()); err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML config file")
	config.BindFlags(root.PersistentFlags(), &cfg)

	root.AddCommand(newSimCmd(&cfg), newPrintStateCmd(&cfg))
	return root
}

func newSimCmd(cfg *config.Config) *cobra.Command {
	var speed float64
	var publish bool

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the timer in the terminal; space is the button",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sim.Options{Poll: cfg.Poll, Speed: speed}

			if publish {
				// Logs would scribble over the TUI
				quiet := zerolog.Nop()
				publisher, err := mqtt.NewRealPublisher(mqtt.Options{
					Broker:   cfg.Broker,
					ClientID: cfg.ClientID + "-sim",
					Topics:   mqtt.NewTopics(cfg.TopicPrefix),
				}, quiet)
				if err != nil {
					return fmt.Errorf("init mqtt: %w", err)
				}
				defer publisher.Close()
				opts.Sink = mqtt.NewTelemetry(publisher, time.Now, quiet)
			}

			return sim.Run(cfg.Timing(), opts)
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 1, "Clock multiplier (60 turns minutes into seconds)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish metrics to the configured broker")
	return cmd
}

func newPrintStateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "print-state",
		Short: "Print the raw button level and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			button, err := gpio.NewRealButton(cfg.Pins.Button)
			if err != nil {
				return fmt.Errorf("init button: %w", err)
			}
			defer button.Close()

			level, err := button.Read()
			if err != nil {
				return fmt.Errorf("read button: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "button (pin %d): %s\n", cfg.Pins.Button, levelString(level))
			return nil
		},
	}
}

// setupLogging configures the global zerolog logger.
func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

func component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func run(cfg config.Config) error {
	button, err := gpio.NewRealButton(cfg.Pins.Button)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	actuator, err := gpio.NewRealActuator(cfg.Pins, cfg.ActiveLow, component("gpio"))
	if err != nil {
		return fmt.Errorf("init actuator: %w", err)
	}
	defer actuator.Close()

	topics := mqtt.NewTopics(cfg.TopicPrefix)
	publisher, err := mqtt.NewRealPublisher(mqtt.Options{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topics:   topics,
	}, component("mqtt"))
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	start := time.Now()
	telemetry := mqtt.NewTelemetry(publisher, time.Now, component("telemetry"))
	machine := logic.NewMachine(cfg.Timing(), actuator, telemetry, start)
	machine.Init()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(start, statusConfig(cfg))
	tracker.Update(status.Capture(machine, start))
	tracker.SetMQTTConnected(publisher.IsConnected())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Error().Err(err).Msg("failed to publish startup event")
	} else {
		log.Info().Msg("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, component("http"))
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http status server listening")
	}

	log.Info().
		Dur("work", cfg.Work).
		Dur("break", cfg.Break).
		Dur("poll", cfg.Poll).
		Str("broker", cfg.Broker).
		Str("topic", cfg.TopicPrefix).
		Dur("heartbeat", cfg.Heartbeat).
		Msg("started")

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(button, machine, publisher, publisher, tracker, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		WorkMs:      cfg.Work.Milliseconds(),
		BreakMs:     cfg.Break.Milliseconds(),
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		CooldownMs:  cfg.Cooldown.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		Topic:       cfg.TopicPrefix,
		HTTPAddr:    cfg.HTTPAddr,
	}
}

// runLoop polls the button once per tick and drives the machine until a
// signal arrives. Nothing in the loop is fatal.
func runLoop(button gpio.Button, machine *logic.Machine, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Info().Stringer("signal", s).Msg("shutting down")
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Error().Err(err).Msg("failed to publish shutdown event")
			} else {
				log.Info().Msg("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			level, err := button.Read()
			if err != nil {
				// Timers keep running; treat the button as released.
				log.Warn().Err(err).Msg("button read error")
				level = true
			}

			for _, event := range machine.Tick(level, t) {
				logEvent(event)
			}

			if tracker != nil {
				tracker.Update(status.Capture(machine, t))
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if heartbeat <= 0 || t.Sub(lastHeartbeat) < heartbeat {
				continue
			}
			lastHeartbeat = t

			m := machine.Metrics()
			log.Info().
				Str("state", string(machine.State())).
				Uint64("cycles", m.CompletedCycles).
				Dur("focus", m.CumulativeFocus).
				Dur("rest", m.CumulativeRest).
				Msg("heartbeat")

			hbEvent := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Error().Err(err).Msg("heartbeat publish error")
			}
		}
	}
}

func logEvent(event logic.Event) {
	e := log.Info()
	if event.FlushErr != nil {
		e = log.Warn().AnErr("flush_error", event.FlushErr)
	}
	e = e.Str("event", string(event.Type)).
		Str("from", string(event.From)).
		Str("to", string(event.To))
	if event.Metrics != nil {
		e = e.Uint64("cycles", event.Metrics.CompletedCycles).
			Dur("focus", event.Metrics.CumulativeFocus).
			Dur("rest", event.Metrics.CumulativeRest)
	}
	e.Msg("transition")
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// levelString describes a raw button level (pull-up: high is released).
func levelString(level bool) string {
	if level {
		return "RELEASED (high)"
	}
	return "PRESSED (low)"
}
