package logic

import "time"

// Machine is the focus timer state machine. It owns all session state and is
// driven by Tick from a single goroutine.
type Machine struct {
	cfg  Config
	act  Actuator
	sink Sink

	state    State
	phase    PhaseTimer
	edge     *EdgeDetector
	acc      *Accumulator
	awaiting bool

	blinkOn   bool
	blinkLast time.Time
}

// NewMachine creates a machine in IDLE. epoch anchors the session clock
// reported in telemetry.
func NewMachine(cfg Config, act Actuator, sink Sink, epoch time.Time) *Machine {
	return &Machine{
		cfg:   cfg,
		act:   act,
		sink:  sink,
		state: StateIdle,
		edge:  NewEdgeDetector(cfg.Debounce, cfg.Cooldown),
		acc:   NewAccumulator(epoch),
	}
}

// Init shows the idle indication. Call once at boot, before the first Tick.
func (m *Machine) Init() {
	m.act.SetIndication(false, true, false)
	m.act.SetProgress(0)
}

// Tick runs one control-loop step: the button is polled once, and if it
// produced a press only the press transition runs. Time-based transitions
// are evaluated on ticks without a press.
func (m *Machine) Tick(raw bool, now time.Time) []Event {
	if m.edge.Poll(raw, now) {
		return []Event{m.handlePress(now)}
	}
	return m.handleTime(now)
}

func (m *Machine) handlePress(now time.Time) Event {
	from := m.state
	switch {
	case m.state == StateIdle:
		m.acc.ResetCycleWindow()
		m.act.SetProgress(0)
		m.enterWork(now)
		return Event{Timestamp: now, Type: EventSessionStart, From: from, To: m.state}

	case m.state == StateBreak && m.awaiting:
		m.acc.RecordRestCompletion(m.phase.Elapsed(now))
		if m.acc.Progress() >= ProgressCap {
			m.acc.ResetCycleWindow()
			m.act.SetProgress(0)
		}
		m.enterWork(now)
		return Event{Timestamp: now, Type: EventResume, From: from, To: m.state}

	default:
		m.state = StateIdle
		m.phase = PhaseTimer{}
		m.awaiting = false
		m.act.SetIndication(false, false, false)
		return Event{Timestamp: now, Type: EventCancel, From: from, To: m.state}
	}
}

func (m *Machine) handleTime(now time.Time) []Event {
	switch m.state {
	case StateWork:
		if !m.phase.Expired(now) {
			return nil
		}
		m.act.PulseAlert(m.cfg.Alert)
		m.acc.RecordFocusCompletion(m.phase.Elapsed(now))
		snap, err := m.flush()
		m.act.SetProgress(m.acc.Progress())
		m.enterBreak(now)
		return []Event{{
			Timestamp: now,
			Type:      EventFocusComplete,
			From:      StateWork,
			To:        m.state,
			Metrics:   &snap,
			FlushErr:  err,
		}}

	case StateBreak:
		if m.awaiting {
			m.blink(now)
			return nil
		}
		if !m.phase.Expired(now) {
			return nil
		}
		m.act.PulseAlert(m.cfg.Alert)
		m.acc.TouchSessionElapsed(now)
		snap, err := m.flush()
		m.awaiting = true
		return []Event{{
			Timestamp: now,
			Type:      EventBreakElapsed,
			From:      StateBreak,
			To:        m.state,
			Metrics:   &snap,
			FlushErr:  err,
		}}
	}

	// IDLE has no timer.
	return nil
}

func (m *Machine) enterWork(now time.Time) {
	m.state = StateWork
	m.phase.Start(now, m.cfg.Work)
	m.awaiting = false
	m.act.SetIndication(true, false, false)
}

func (m *Machine) enterBreak(now time.Time) {
	m.state = StateBreak
	m.phase.Start(now, m.cfg.Break)
	m.awaiting = false
	m.blinkOn = true
	m.blinkLast = now
	m.act.SetIndication(false, false, true)
}

func (m *Machine) blink(now time.Time) {
	if now.Sub(m.blinkLast) < m.cfg.Blink {
		return
	}
	m.blinkLast = now
	m.blinkOn = !m.blinkOn
	m.act.SetIndication(false, false, m.blinkOn)
}

// flush stages the current snapshot and hands it to the sink.
func (m *Machine) flush() (Metrics, error) {
	snap := m.acc.Snapshot()
	for i, v := range snap.Fields() {
		m.sink.StageField(i+1, v)
	}
	return snap, m.sink.Flush()
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// AwaitingResume reports whether the break has elapsed and the machine is
// waiting for a press to start the next work phase.
func (m *Machine) AwaitingResume() bool {
	return m.awaiting
}

// Progress returns the number of lit progress indicators.
func (m *Machine) Progress() int {
	return m.acc.Progress()
}

// Metrics returns a snapshot of the session counters.
func (m *Machine) Metrics() Metrics {
	return m.acc.Snapshot()
}

// ButtonPressed returns the debounced button level.
func (m *Machine) ButtonPressed() bool {
	return m.edge.Pressed()
}

// PhaseElapsed returns the time spent in the current phase (0 in IDLE).
func (m *Machine) PhaseElapsed(now time.Time) time.Duration {
	if m.state == StateIdle {
		return 0
	}
	return m.phase.Elapsed(now)
}

// PhaseRemaining returns the time left until the phase target, floored at 0.
func (m *Machine) PhaseRemaining(now time.Time) time.Duration {
	if m.state == StateIdle {
		return 0
	}
	left := m.phase.Target() - m.phase.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}
