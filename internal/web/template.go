package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/standup-mate/internal/display"
	"github.com/sweeney/standup-mate/internal/status"
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
	"clock": func(d time.Duration) string {
		h, m, s := display.SplitDuration(d)
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	},
	"seconds": func(n int) time.Duration {
		return time.Duration(n) * time.Second
	},
	"percent": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
	"cm": func(d float64) string {
		return fmt.Sprintf("%.1f cm", d)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Standup Mate</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.sitting { color: #c60; font-weight: bold; }
.standing, .away { color: green; font-weight: bold; }
.unknown { color: orange; }
.alert { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.led { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 4px; background: #ddd; }
.led.lit { background: red; }
</style>
</head>
<body>
<h1>Standup Mate</h1>

<h2>Posture</h2>
<table>
<tr><th>Posture</th><td id="posture" class="{{if eq (printf "%s" .Frame.Posture) "SITTING"}}sitting{{else if eq (printf "%s" .Frame.Posture) "STANDING"}}standing{{else if eq (printf "%s" .Frame.Posture) "AWAY"}}away{{else}}unknown{{end}}">{{if .Frame.Posture}}{{.Frame.Posture}}{{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Page</th><td id="page">{{.Frame.Page}}</td></tr>
<tr><th>Ready</th><td>{{if .Frame.Calibrating}}calibrating ({{percent .Frame.CalibProgress}}){{else}}yes{{end}}</td></tr>
<tr><th>Sitting for</th><td>{{clock (seconds .Frame.SittingTime)}}</td></tr>
<tr><th>Remaining</th><td>{{clock .Frame.Remaining}} ({{percent .Frame.RemainingPercent}})</td></tr>
<tr><th>Alert</th><td class="{{if .Frame.Alert}}alert{{end}}">{{if .Frame.Alert}}STAND UP{{if .Frame.SirenOn}} (siren){{end}}{{else}}none{{end}}</td></tr>
<tr><th>LEDs</th><td>{{range .Frame.LEDs}}<span class="led{{if .}} lit{{end}}"></span>{{end}}</td></tr>
</table>

<h2>Sensor</h2>
<table>
<tr><th>Distance</th><td>{{cm .Frame.Distance}}</td></tr>
<tr><th>Sitting distance</th><td>{{cm .Frame.SittingDistance}}</td></tr>
<tr><th>Sensor faults</th><td>{{.Counts.SensorFaults}}</td></tr>
<tr><th>Button faults</th><td>{{.Counts.ButtonFaults}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Sit downs</th><td>{{.Counts.SitDowns}}</td></tr>
<tr><th>Stand ups</th><td>{{.Counts.StandUps}}</td></tr>
<tr><th>Leaves</th><td>{{.Counts.Leaves}}</td></tr>
<tr><th>Alerts</th><td>{{.Counts.Alerts}}</td></tr>
<tr><th>Acknowledged</th><td>{{.Counts.Acknowledges}}</td></tr>
<tr><th>Complements</th><td>{{.Counts.Complements}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}}ms</td></tr>
<tr><th>Timer</th><td>{{.Config.TimerMin}} min</td></tr>
<tr><th>Telemetry</th><td>{{if eq .Config.TelemetryMs 0}}disabled{{else}}{{.Config.TelemetryMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
