package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/pinmap/internal/pins"
	"github.com/sweeney/pinmap/internal/status"
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
	"level": status.Level,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pin Map</title>
<style>
body { font-family: monospace; max-width: 700px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.shared { color: orange; font-weight: bold; }
.alias { color: #888; }
.high { color: green; font-weight: bold; }
.low { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Pin Map ({{.Map.Direction}}, ENCODER_DIRECTION={{.Map.Direction.Flag}})</h1>

<h2>Assignments</h2>
<table>
<tr><th>Symbol</th><th>Role</th><th>Pin</th><th>Digital</th></tr>
{{range .Assignments}}<tr><td>{{.Role.Symbol}}</td><td>{{.Role.Description}}</td><td>{{.Pin}}</td><td>{{.Pin.Number}}</td></tr>
{{end}}</table>

{{if .Shares}}<h2>Shared Pins</h2>
<table>
{{range .Shares}}<tr><th>{{.Pin}}</th><td class="{{.Kind}}">{{.Kind}}</td><td>{{range $i, $r := .Roles}}{{if $i}}, {{end}}{{$r.Symbol}}{{end}}</td></tr>
{{end}}</table>
{{end}}
<h2>Encoder Lines</h2>
<table>
{{if .EncoderValid}}<tr><th>A</th><td class="{{if .Encoder.A}}high{{else}}low{{end}}">{{level .Encoder.A}}</td></tr>
<tr><th>B</th><td class="{{if .Encoder.B}}high{{else}}low{{end}}">{{level .Encoder.B}}</td></tr>
<tr><th>C</th><td class="{{if .Encoder.C}}high{{else}}low{{end}}">{{level .Encoder.C}}</td></tr>
{{else}}<tr><th>Lines</th><td>{{if .Config.Claimed}}unknown{{else}}not claimed{{end}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>GPIO</th><td>{{if .Config.Claimed}}{{.Config.Chip}}{{else}}not claimed{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/pins.json">Pins</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has methods but the template needs plain fields.
	data := struct {
		status.Snapshot
		Uptime      time.Duration
		Assignments []pins.Assignment
		Shares      []pins.Share
	}{
		Snapshot:    snap,
		Uptime:      snap.Uptime(),
		Assignments: snap.Map.Assignments(),
		Shares:      snap.Map.Shares(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("web: render index")
	}
}
