package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"clock":      clock,
	"stateClass": stateClass,
	"stateOrUnknown": func(s logic.State) string {
		if s == "" {
			return "UNKNOWN"
		}
		return string(s)
	},
	"leds": func(n int) []bool {
		out := make([]bool, logic.ProgressCap)
		for i := range out {
			out[i] = i < n
		}
		return out
	},
}).Parse(indexHTML))

// clock formats d as mm:ss, or h:mm:ss past an hour.
func clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func stateClass(s logic.State, awaiting bool) string {
	switch {
	case s == logic.StateWork:
		return "work"
	case s == logic.StateBreak && awaiting:
		return "waiting"
	case s == logic.StateBreak:
		return "rest"
	case s == logic.StateIdle:
		return "idle"
	}
	return "unknown"
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Focus Timer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.work { color: #c0392b; font-weight: bold; }
.rest { color: green; font-weight: bold; }
.waiting { color: green; font-weight: bold; text-decoration: underline; }
.idle { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.led { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 4px; background: #ddd; }
.led.lit { background: #e67e22; }
</style>
</head>
<body>
<h1>Focus Timer</h1>

<h2>Timer</h2>
<table>
<tr><th>State</th><td id="state" class="{{stateClass .State .Awaiting}}">{{stateOrUnknown .State}}{{if .Awaiting}} (press to resume){{end}}</td></tr>
<tr><th>Elapsed</th><td>{{clock .PhaseElapsed}}</td></tr>
<tr><th>Remaining</th><td>{{clock .PhaseRemaining}}</td></tr>
<tr><th>Progress</th><td id="progress">{{range leds .Progress}}<span class="led{{if .}} lit{{end}}"></span>{{end}}</td></tr>
<tr><th>Button</th><td>{{if .ButtonPressed}}pressed{{else}}released{{end}}</td></tr>
</table>

<h2>Session</h2>
<table>
<tr><th>Completed cycles</th><td id="cycles">{{.Metrics.CompletedCycles}}</td></tr>
<tr><th>Focus</th><td>{{clock .Metrics.CumulativeFocus}}</td></tr>
<tr><th>Rest</th><td>{{clock .Metrics.CumulativeRest}}</td></tr>
<tr><th>Session clock</th><td>{{clock .Metrics.SessionElapsed}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic</th><td>{{.Config.Topic}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Work</th><td>{{.Config.WorkMs}}ms</td></tr>
<tr><th>Break</th><td>{{.Config.BreakMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Cooldown</th><td>{{.Config.CooldownMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
