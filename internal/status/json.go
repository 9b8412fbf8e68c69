package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/microwave/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Oven          OvenJSON   `json:"oven"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// OvenJSON is the JSON representation of the shared oven state.
type OvenJSON struct {
	Mode          string `json:"mode"`
	Output        string `json:"output"`
	Heating       bool   `json:"heating"`
	Door          string `json:"door"`
	Weight        string `json:"weight"`
	SetTime       uint32 `json:"set_time"`
	RemainingTime uint32 `json:"remaining_time"`
	Ticks         uint64 `json:"ticks"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	ModeChanges int `json:"mode_changes"`
	HeatingOn   int `json:"heating_on"`
	HeatingOff  int `json:"heating_off"`
	CookDone    int `json:"cook_done"`
	DoorOn      int `json:"door_on"`
	DoorOff     int `json:"door_off"`
	WeightOn    int `json:"weight_on"`
	WeightOff   int `json:"weight_off"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Sensors     string `json:"sensors"`
	Outputs     string `json:"outputs"`
}

// Build converts a snapshot to its JSON form.
func Build(snap Snapshot) StatusInner {
	o := snap.Oven
	c := snap.Counts
	return StatusInner{
		Oven: OvenJSON{
			Mode:          o.Mode.String(),
			Output:        o.Output.String(),
			Heating:       o.Output.On(),
			Door:          string(logic.StateOf(o.Door)),
			Weight:        string(logic.StateOf(o.Weight)),
			SetTime:       o.SetTime,
			RemainingTime: o.Remaining,
			Ticks:         snap.Ticks,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			ModeChanges: c.ModeChanges,
			HeatingOn:   c.HeatingOn,
			HeatingOff:  c.HeatingOff,
			CookDone:    c.CookDone,
			DoorOn:      c.DoorOn,
			DoorOff:     c.DoorOff,
			WeightOn:    c.WeightOn,
			WeightOff:   c.WeightOff,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Sensors:     snap.Config.Sensors,
			Outputs:     snap.Config.Outputs,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: Build(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := Build(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
