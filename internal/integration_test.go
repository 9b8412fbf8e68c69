package internal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/microwave/internal/display"
	"github.com/sweeney/microwave/internal/gpio"
	"github.com/sweeney/microwave/internal/keypad"
	"github.com/sweeney/microwave/internal/logic"
	"github.com/sweeney/microwave/internal/mqtt"
	"github.com/sweeney/microwave/internal/oven"
	"github.com/sweeney/microwave/internal/status"
)

// system is the whole device built from fakes, stepped the way the daemon's
// main loop steps it.
type system struct {
	t         *testing.T
	oven      *oven.Oven
	keys      *keypad.Queue
	sensors   *gpio.FakeReader
	disp      *display.Fake
	out       *gpio.FakeWriter
	publisher *mqtt.FakePublisher
	watcher   *logic.Watcher
	tracker   *status.Tracker
	now       time.Time
	tickErrs  []error
}

func newSystem(t *testing.T, samples []gpio.Sample) *system {
	t.Helper()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &system{
		t:         t,
		keys:      keypad.NewQueue(8),
		sensors:   gpio.NewFakeReader(samples),
		disp:      display.NewFake(),
		out:       gpio.NewFakeWriter(),
		publisher: mqtt.NewFakePublisher(),
		watcher:   logic.NewWatcher(start),
		tracker:   status.NewTracker(start, status.Config{TickMs: 100, Sensors: "gpio", Outputs: "gpio"}),
		now:       start,
	}
	ov, err := oven.New(oven.Config{
		Keys:    s.keys,
		Sensors: logic.NewPinSensors(s.sensors),
		Display: s.disp,
		Outputs: s.out,
	})
	if err != nil {
		t.Fatalf("oven.New: %v", err)
	}
	if err := ov.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.oven = ov
	s.watcher.Process(ov.Snapshot(), start)
	return s
}

// invoke runs two base ticks, i.e. one pass of the task table, after
// queueing keys.
func (s *system) invoke(keys string) {
	s.t.Helper()
	for i := 0; i < len(keys); i++ {
		if !s.keys.Push(keys[i]) {
			s.t.Fatalf("key %q rejected", keys[i])
		}
	}
	for i := 0; i < oven.TaskPeriod; i++ {
		s.now = s.now.Add(100 * time.Millisecond)
		if err := s.oven.Tick(); err != nil {
			s.tickErrs = append(s.tickErrs, err)
		}
		snap := s.oven.Snapshot()
		for _, event := range s.watcher.Process(snap, s.now) {
			s.publisher.Publish(event)
		}
		s.tracker.Update(snap, s.oven.Ticks(), s.watcher.EventCountsSnapshot())
	}
}

func (s *system) top() string {
	return strings.TrimRight(s.disp.Line(0), " ")
}

func closed() gpio.Sample { return gpio.Sample{} }

func expectEvents(t *testing.T, got []logic.EventType, want ...logic.EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

// TestIntegrationFullCook runs a 12 second cook from keypad to MQTT.
func TestIntegrationFullCook(t *testing.T) {
	s := newSystem(t, []gpio.Sample{closed()})

	s.invoke("1")
	s.invoke("2")
	if s.oven.Snapshot().SetTime != 12 {
		t.Fatalf("SetTime: got %d, want 12", s.oven.Snapshot().SetTime)
	}
	if len(s.publisher.Events) != 0 {
		t.Errorf("digit entry should not publish, got %v", s.publisher.EventTypes())
	}

	s.invoke("D")
	expectEvents(t, s.publisher.EventTypes(), logic.EventMode, logic.EventHeatingOn)
	if !s.out.Level(gpio.Heater) || !s.out.Level(gpio.Lamp) || !s.out.Level(gpio.Motor) {
		t.Error("heater, lamp and motor should be on")
	}

	// 12 seconds at 5 invocations per second, then one more to finish.
	for i := 0; i < 12*logic.TicksPerSecond; i++ {
		s.invoke("")
	}
	if snap := s.oven.Snapshot(); snap.Mode != logic.ModeRemaining || snap.Remaining != 0 {
		t.Fatalf("before completion: %+v", snap)
	}
	s.invoke("")

	expectEvents(t, s.publisher.EventTypes(),
		logic.EventMode, logic.EventHeatingOn,
		logic.EventMode, logic.EventHeatingOff, logic.EventCookDone)
	if s.out.Level(gpio.Heater) {
		t.Error("heater should be off after the cook")
	}
	if s.top() != display.TextSetTime {
		t.Errorf("display: got %q, want %q", s.top(), display.TextSetTime)
	}

	// Verify JSON payloads
	for i, payload := range s.publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Microwave.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Microwave.Door.State != "OFF" || parsed.Microwave.Weight.State != "OFF" {
			t.Errorf("payload %d: unexpected sensors %+v", i, parsed.Microwave)
		}
	}
	var done mqtt.Payload
	json.Unmarshal(s.publisher.Payloads[4], &done)
	if done.Microwave.Event != "COOK_DONE" || done.Microwave.Mode != "SET_TIME" {
		t.Errorf("COOK_DONE payload: %+v", done.Microwave)
	}
}

// TestIntegrationDoorPauseAndResume opens the door mid-cook and restarts.
func TestIntegrationDoorPauseAndResume(t *testing.T) {
	s := newSystem(t, []gpio.Sample{
		closed(), closed(), // entry and start
		{Door: true}, // door opened with the pause key
		closed(),     // door shut again, repeated from here on
	})

	s.invoke("3")
	s.invoke("D")
	s.invoke("B")

	snap := s.oven.Snapshot()
	if snap.Mode != logic.ModeCloseDoor || snap.Output != logic.StopHeating {
		t.Fatalf("after door open: %+v", snap)
	}
	if snap.SetTime != 3 || snap.Remaining != 3 {
		t.Errorf("paused times: set=%d remaining=%d, want 3/3", snap.SetTime, snap.Remaining)
	}
	if s.top() != display.TextCloseDoor {
		t.Errorf("display: got %q, want %q", s.top(), display.TextCloseDoor)
	}
	if !s.out.Level(gpio.DoorLED) || s.out.Level(gpio.Heater) {
		t.Error("door indicator on and heater off expected while paused")
	}

	s.invoke("")
	if s.oven.Snapshot().Mode != logic.ModeCloseDoor {
		t.Error("closing the door alone must not resume the cook")
	}

	s.invoke("D")
	snap = s.oven.Snapshot()
	if snap.Mode != logic.ModeRemaining || snap.Remaining != 3 || snap.Output != logic.StartHeating {
		t.Fatalf("after resume: %+v", snap)
	}

	expectEvents(t, s.publisher.EventTypes(),
		logic.EventMode, logic.EventHeatingOn, // start
		logic.EventDoorOn, logic.EventMode, logic.EventHeatingOff, // pause
		logic.EventDoorOff,                    // door shut
		logic.EventMode, logic.EventHeatingOn, // resume
	)
}

// TestIntegrationSensorAloneDoesNotPause keeps cooking when the physical
// door input changes without the pause key.
func TestIntegrationSensorAloneDoesNotPause(t *testing.T) {
	s := newSystem(t, []gpio.Sample{
		closed(), closed(), // entry and start
		{Door: true}, // door input ON from here on
	})

	s.invoke("3")
	s.invoke("D")
	s.invoke("")

	snap := s.oven.Snapshot()
	if snap.Mode != logic.ModeRemaining || snap.Output != logic.StartHeating {
		t.Fatalf("after door input: %+v", snap)
	}
	if !snap.Door || !s.out.Level(gpio.DoorLED) {
		t.Error("door flag and indicator should follow the input")
	}
	if !s.out.Level(gpio.Heater) {
		t.Error("heater should stay on")
	}
	expectEvents(t, s.publisher.EventTypes(),
		logic.EventMode, logic.EventHeatingOn,
		logic.EventDoorOn,
	)
}

// TestIntegrationNoFoodBlocksStart keeps the heater off when the weight
// sensor reports an empty oven.
func TestIntegrationNoFoodBlocksStart(t *testing.T) {
	s := newSystem(t, []gpio.Sample{{Weight: true}})

	s.invoke("5")
	s.invoke("D")

	if s.oven.Snapshot().Mode != logic.ModePutFood {
		t.Fatalf("mode: got %s, want PUT_FOOD", s.oven.Snapshot().Mode)
	}
	if s.out.Level(gpio.Heater) {
		t.Error("heater must stay off without food")
	}
	if !s.out.Level(gpio.WeightLED) {
		t.Error("weight indicator should be on")
	}
	if s.top() != display.TextPutFood {
		t.Errorf("display: got %q, want %q", s.top(), display.TextPutFood)
	}
	expectEvents(t, s.publisher.EventTypes(), logic.EventWeightOn, logic.EventMode)
}

// TestIntegrationCancelDuringCook stops the heater without COOK_DONE.
func TestIntegrationCancelDuringCook(t *testing.T) {
	s := newSystem(t, []gpio.Sample{closed()})

	s.invoke("9")
	s.invoke("D")
	s.invoke("")
	s.invoke("C")

	snap := s.oven.Snapshot()
	if snap.Mode != logic.ModeSetTime || snap.SetTime != 0 || snap.Output != logic.StopHeating {
		t.Fatalf("after cancel: %+v", snap)
	}
	expectEvents(t, s.publisher.EventTypes(),
		logic.EventMode, logic.EventHeatingOn,
		logic.EventMode, logic.EventHeatingOff)
}

// TestIntegrationSensorFaultDoesNotStopOven keeps cooking on a failed
// sensor read, using the last good readings.
func TestIntegrationSensorFaultDoesNotStopOven(t *testing.T) {
	s := newSystem(t, []gpio.Sample{closed()})
	s.invoke("4")

	s.sensors.ReadError = errors.New("gpio fault")
	s.invoke("D")

	if len(s.tickErrs) == 0 {
		t.Fatal("expected the sensor fault to be reported")
	}
	if !strings.Contains(s.tickErrs[0].Error(), "gpio fault") {
		t.Errorf("tick error: %v", s.tickErrs[0])
	}
	if s.oven.Snapshot().Mode != logic.ModeRemaining {
		t.Errorf("mode: got %s, want REMAINING_DISPLAY", s.oven.Snapshot().Mode)
	}
}

// TestIntegrationPublishFailureDoesNotCrash keeps the oven running when
// the broker rejects events.
func TestIntegrationPublishFailureDoesNotCrash(t *testing.T) {
	s := newSystem(t, []gpio.Sample{closed()})
	s.publisher.PublishError = errors.New("broker down")

	s.invoke("1")
	s.invoke("D")

	if len(s.publisher.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(s.publisher.Events))
	}
	if !s.out.Level(gpio.Heater) {
		t.Error("heater should be on regardless of MQTT")
	}
	if s.tracker.Snapshot().Counts.HeatingOn != 1 {
		t.Error("counts should track events even when publishing fails")
	}
}

// TestIntegrationStartupThenShutdown checks the retained lifecycle payloads.
func TestIntegrationStartupThenShutdown(t *testing.T) {
	s := newSystem(t, []gpio.Sample{closed()})
	s.tracker.Update(s.oven.Snapshot(), s.oven.Ticks(), logic.EventCounts{})

	startup := mqtt.SystemEvent{
		Timestamp:  s.now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(s.tracker.Snapshot(), "STARTUP", ""),
	}
	s.publisher.PublishSystem(startup)

	s.invoke("2")
	s.invoke("D")
	if err := s.oven.Off(); err != nil {
		t.Fatalf("Off: %v", err)
	}
	shutdown := mqtt.SystemEvent{
		Timestamp:  s.now,
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(s.tracker.Snapshot(), "SHUTDOWN", "SIGTERM"),
	}
	s.publisher.PublishSystem(shutdown)

	if len(s.publisher.SystemPayloads) != 2 {
		t.Fatalf("expected 2 system payloads, got %d", len(s.publisher.SystemPayloads))
	}

	var up, down status.StatusJSON
	if err := json.Unmarshal(s.publisher.SystemPayloads[0], &up); err != nil {
		t.Fatalf("startup payload: %v", err)
	}
	if err := json.Unmarshal(s.publisher.SystemPayloads[1], &down); err != nil {
		t.Fatalf("shutdown payload: %v", err)
	}

	if up.Status.Event != "STARTUP" || up.Status.Oven.Mode != "SET_TIME" || up.Status.Oven.Heating {
		t.Errorf("startup status: %+v", up.Status)
	}
	if down.Status.Event != "SHUTDOWN" || down.Status.Reason != "SIGTERM" {
		t.Errorf("shutdown event/reason: %q/%q", down.Status.Event, down.Status.Reason)
	}
	if down.Status.Oven.Mode != "REMAINING_DISPLAY" || down.Status.Counts.HeatingOn != 1 {
		t.Errorf("shutdown status: %+v", down.Status)
	}
	for _, l := range gpio.Lines() {
		if s.out.Level(l) {
			t.Errorf("%s still on after shutdown", l)
		}
	}
}
