package logic

import "time"

// Watcher compares successive snapshots of the shared state and reports
// the changes worth publishing.
type Watcher struct {
	prev          Snapshot
	baselined     bool
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewWatcher creates a watcher. The startTime is used for calculating
// uptime in heartbeat events.
func NewWatcher(startTime time.Time) *Watcher {
	return &Watcher{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes the state after a scheduler tick and returns the events it
// implies. The first snapshot only establishes the baseline.
// Event order: sensors (door, weight), then mode, then heating.
func (w *Watcher) Process(snap Snapshot, now time.Time) []Event {
	if !w.baselined {
		w.prev = snap
		w.baselined = true
		return nil
	}

	prev := w.prev
	w.prev = snap

	var types []EventType
	if snap.Door != prev.Door {
		types = append(types, pick(snap.Door, EventDoorOn, EventDoorOff))
	}
	if snap.Weight != prev.Weight {
		types = append(types, pick(snap.Weight, EventWeightOn, EventWeightOff))
	}
	if snap.Mode != prev.Mode {
		types = append(types, EventMode)
	}
	if snap.Output != prev.Output {
		types = append(types, pick(snap.Output.On(), EventHeatingOn, EventHeatingOff))
	}
	if prev.Mode == ModeRemaining && snap.Mode == ModeSetTime && prev.Remaining == 0 {
		types = append(types, EventCookDone)
	}

	events := make([]Event, 0, len(types))
	for _, t := range types {
		w.count(t)
		events = append(events, Event{
			Timestamp: now,
			Type:      t,
			Mode:      snap.Mode,
			Output:    snap.Output,
			Door:      StateOf(snap.Door),
			Weight:    StateOf(snap.Weight),
			SetTime:   snap.SetTime,
			Remaining: snap.Remaining,
		})
	}
	return events
}

func (w *Watcher) count(t EventType) {
	switch t {
	case EventMode:
		w.eventCounts.ModeChanges++
	case EventHeatingOn:
		w.eventCounts.HeatingOn++
	case EventHeatingOff:
		w.eventCounts.HeatingOff++
	case EventCookDone:
		w.eventCounts.CookDone++
	case EventDoorOn:
		w.eventCounts.DoorOn++
	case EventDoorOff:
		w.eventCounts.DoorOff++
	case EventWeightOn:
		w.eventCounts.WeightOn++
	case EventWeightOff:
		w.eventCounts.WeightOff++
	}
}

func pick(on bool, ifOn, ifOff EventType) EventType {
	if on {
		return ifOn
	}
	return ifOff
}

// IsBaselined returns whether the watcher has seen its first snapshot.
func (w *Watcher) IsBaselined() bool {
	return w.baselined
}

// EventCountsSnapshot returns a copy of the event counts.
func (w *Watcher) EventCountsSnapshot() EventCounts {
	return w.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (w *Watcher) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !w.baselined {
		return nil
	}

	if now.Sub(w.lastHeartbeat) < interval {
		return nil
	}

	w.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(w.startTime),
		Counts:    w.eventCounts,
	}
}
