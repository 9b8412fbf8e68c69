package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/microwave/internal/logic"
	"github.com/sweeney/microwave/internal/status"
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
	"state": func(on bool) string {
		return string(logic.StateOf(on))
	},
	"keys": func() []string {
		return []string{"1", "2", "3", "A", "4", "5", "6", "B", "7", "8", "9", "C", "0", "D"}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Microwave</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.keypad { display: grid; grid-template-columns: repeat(4, 3em); gap: 4px; }
.keypad button { font-family: monospace; font-size: 1.2em; height: 2.2em; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Microwave<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>Oven</h2>
<table>
<tr><th>Mode</th><td id="mode">{{.Oven.Mode}}</td></tr>
<tr><th>Heating</th><td id="output" class="{{if .Oven.Output.On}}on{{else}}off{{end}}">{{.Oven.Output}}</td></tr>
<tr><th>Set Time</th><td id="set-time">{{.Oven.SetTime}}</td></tr>
<tr><th>Remaining</th><td id="remaining">{{.Oven.Remaining}}</td></tr>
<tr><th>Door</th><td id="door" class="{{if .Oven.Door}}on{{else}}off{{end}}">{{state .Oven.Door}}</td></tr>
<tr><th>Weight</th><td id="weight" class="{{if .Oven.Weight}}on{{else}}off{{end}}">{{state .Oven.Weight}}</td></tr>
</table>
{{if .Keypad}}
<h2>Keypad</h2>
<div class="keypad">
{{range keys}}<button type="button" data-key="{{.}}">{{.}}</button>
{{end}}</div>
<p>A weight, B door, C cancel, D start</p>
{{end}}
<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td id="mqtt" class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Mode changes</th><td>{{.Counts.ModeChanges}}</td></tr>
<tr><th>Heating on</th><td>{{.Counts.HeatingOn}}</td></tr>
<tr><th>Heating off</th><td>{{.Counts.HeatingOff}}</td></tr>
<tr><th>Cook done</th><td>{{.Counts.CookDone}}</td></tr>
<tr><th>Door on/off</th><td>{{.Counts.DoorOn}} / {{.Counts.DoorOff}}</td></tr>
<tr><th>Weight on/off</th><td>{{.Counts.WeightOn}} / {{.Counts.WeightOff}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Sensors</th><td>{{.Config.Sensors}}</td></tr>
<tr><th>Outputs</th><td>{{.Config.Outputs}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");
  var el = function(id) { return document.getElementById(id); };
  var ws;

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function setOnOff(node, on, text) {
    node.textContent = text;
    node.className = on ? "on" : "off";
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var msg = JSON.parse(ev.data);
        if (!msg.status) { return; }
        var o = msg.status.oven;
        el("mode").textContent = o.mode;
        setOnOff(el("output"), o.heating, o.output);
        el("set-time").textContent = o.set_time;
        el("remaining").textContent = o.remaining_time;
        setOnOff(el("door"), o.door === "ON", o.door);
        setOnOff(el("weight"), o.weight === "ON", o.weight);
        var m = el("mqtt");
        m.textContent = msg.status.mqtt.connected ? "connected" : "disconnected";
        m.className = m.textContent;
      } catch (e) {}
    };
  }

  document.querySelectorAll("button[data-key]").forEach(function(b) {
    b.addEventListener("click", function() {
      if (ws && ws.readyState === WebSocket.OPEN) {
        ws.send(JSON.stringify({ key: b.dataset.key }));
      }
    });
  });

  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, keypad bool) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Keypad bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Keypad:   keypad,
	}
	indexTmpl.Execute(w, data)
}
