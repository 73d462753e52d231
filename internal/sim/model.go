// Package sim runs the focus timer in a terminal. The keyboard stands in for
// the push button and the indicators are drawn with lipgloss.
package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/focus-timer/internal/logic"
)

const maxEvents = 5

// Options tunes the simulator.
type Options struct {
	// Poll is the wall-clock tick interval.
	Poll time.Duration
	// Speed multiplies the machine clock; 60 turns minutes into seconds.
	Speed float64
	// Sink receives telemetry flushes in addition to the on-screen counter.
	Sink logic.Sink
}

type tickMsg time.Time

// Model is the bubbletea model driving one machine.
type Model struct {
	cfg     logic.Config
	opts    Options
	machine *logic.Machine
	act     *actuator
	sink    *sink

	start     time.Time // wall time at boot, also the machine epoch
	now       time.Time // machine clock
	holdUntil time.Time
	events    []logic.Event

	width int
}

// New creates a simulator whose machine clock starts at start.
func New(cfg logic.Config, opts Options, start time.Time) Model {
	if opts.Poll <= 0 {
		opts.Poll = 10 * time.Millisecond
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}

	act := &actuator{at: start}
	snk := &sink{next: opts.Sink}
	m := logic.NewMachine(cfg, act, snk, start)
	m.Init()

	return Model{
		cfg:     cfg,
		opts:    opts,
		machine: m,
		act:     act,
		sink:    snk,
		start:   start,
		now:     start,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick(m.opts.Poll)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.Press):
			m.holdUntil = m.now.Add(m.hold())
		}
		return m, nil

	case tickMsg:
		m.step(m.clock(time.Time(msg)))
		return m, tick(m.opts.Poll)
	}
	return m, nil
}

// clock maps wall time to the machine clock.
func (m Model) clock(wall time.Time) time.Time {
	elapsed := float64(wall.Sub(m.start)) * m.opts.Speed
	now := m.start.Add(time.Duration(elapsed))
	if now.Before(m.now) {
		return m.now
	}
	return now
}

// hold is how long a key press keeps the simulated line low: long enough
// to clear debounce with a tick to spare.
func (m Model) hold() time.Duration {
	tick := time.Duration(float64(m.opts.Poll) * m.opts.Speed)
	return m.cfg.Debounce + 2*tick
}

func (m *Model) step(now time.Time) {
	m.now = now
	m.act.at = now
	raw := !now.Before(m.holdUntil)
	for _, ev := range m.machine.Tick(raw, now) {
		m.events = append(m.events, ev)
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
	}
}

// State exposes the machine state for tests and the caller.
func (m Model) State() logic.State {
	return m.machine.State()
}

// Flushes returns how many telemetry snapshots were emitted.
func (m Model) Flushes() int {
	return m.sink.flushes
}

// Events returns the most recent machine events, oldest first.
func (m Model) Events() []logic.Event {
	return m.events
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Focus Timer"))
	if m.opts.Speed != 1 {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("  x%g", m.opts.Speed)))
	}
	b.WriteString("\n\n")

	name := string(m.machine.State())
	if m.machine.AwaitingResume() {
		name = "WAITING"
	}
	b.WriteString(StateStyles[name].Render(name))
	if m.machine.State() != logic.StateIdle {
		elapsed := m.machine.PhaseElapsed(m.now)
		remaining := m.machine.PhaseRemaining(m.now)
		b.WriteString("  " + ValueStyle.Render(clock(elapsed)))
		b.WriteString(LabelStyle.Render(" elapsed, ") + ValueStyle.Render(clock(remaining)))
		b.WriteString(LabelStyle.Render(" left"))
	}
	if m.act.ringing(m.now) {
		b.WriteString("  " + BellStyle.Render("BELL"))
	}
	b.WriteString("\n\n")

	b.WriteString(led(m.act.focus, FocusLEDStyle) + LabelStyle.Render(" focus  "))
	b.WriteString(led(m.act.idle, IdleLEDStyle) + LabelStyle.Render(" idle  "))
	b.WriteString(led(m.act.rest, RestLEDStyle) + LabelStyle.Render(" rest"))
	b.WriteString("\n")

	leds := make([]string, logic.ProgressCap)
	for i := range leds {
		leds[i] = led(i < m.act.progress, ProgressLEDStyle)
	}
	b.WriteString(strings.Join(leds, " ") + LabelStyle.Render(" progress"))
	b.WriteString("\n\n")

	metrics := m.machine.Metrics()
	b.WriteString(LabelStyle.Render("cycles ") + ValueStyle.Render(fmt.Sprint(metrics.CompletedCycles)))
	b.WriteString(LabelStyle.Render("  focus ") + ValueStyle.Render(clock(metrics.CumulativeFocus)))
	b.WriteString(LabelStyle.Render("  rest ") + ValueStyle.Render(clock(metrics.CumulativeRest)))
	b.WriteString(LabelStyle.Render("  flushes ") + ValueStyle.Render(fmt.Sprint(m.sink.flushes)))
	if m.sink.err != nil {
		b.WriteString("  " + ErrorStyle.Render("flush: "+m.sink.err.Error()))
	}
	b.WriteString("\n\n")

	for _, ev := range m.events {
		offset := ev.Timestamp.Sub(m.start).Truncate(time.Second)
		line := fmt.Sprintf("%8s  %-14s %s -> %s", clock(offset), ev.Type, ev.From, ev.To)
		b.WriteString(EventStyle.Render(line) + "\n")
	}
	if len(m.events) > 0 {
		b.WriteString("\n")
	}

	var help []string
	for _, k := range Keys.ShortHelp() {
		h := k.Help()
		help = append(help, HelpKeyStyle.Render(h.Key)+" "+HelpDescStyle.Render(h.Desc))
	}
	b.WriteString(strings.Join(help, "  "))

	panel := PanelStyle.Render(b.String())
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, panel)
	}
	return panel
}

// clock formats d as mm:ss, or h:mm:ss past an hour.
func clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%02d:%02d", mins, s)
}

// Run starts the simulator on the terminal and blocks until the user quits.
func Run(cfg logic.Config, opts Options) error {
	p := tea.NewProgram(New(cfg, opts, time.Now()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run simulator: %w", err)
	}
	return nil
}
