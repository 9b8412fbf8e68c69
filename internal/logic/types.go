// Package logic holds the oven's shared state and the control tasks that run
// against it: key and sensor capture, the mode state machine, and the event
// watcher that turns state changes into published events.
// It has no external dependencies (no GPIO, MQTT, OS, or time.Sleep).
package logic

import (
	"fmt"
	"time"
)

// Key is a single keypad value as seen by the control tasks.
// Digits are '0'..'9', control keys are 'A'..'D'.
type Key byte

// KeyNone is written when no key is pressed. It is neither a digit nor a
// control key, so every branch of the controller ignores it.
const KeyNone Key = 0

// Control key bindings.
const (
	KeyWeight Key = 'A' // toggles the simulated weight sensor
	KeyDoor   Key = 'B' // toggles the simulated door sensor, pauses a cook
	KeyCancel Key = 'C'
	KeyStart  Key = 'D'
)

// IsDigit reports whether k is a decimal digit key.
func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// IsControl reports whether k is one of the four control letters.
func (k Key) IsControl() bool {
	return k >= 'A' && k <= 'D'
}

// Digit returns the numeric value of a digit key.
func (k Key) Digit() uint32 {
	return uint32(k - '0')
}

func (k Key) String() string {
	if k == KeyNone {
		return "NONE"
	}
	return string(rune(k))
}

// Mode is the top-level state of the oven controller.
type Mode uint8

const (
	ModeSetTime Mode = iota
	ModeRemaining
	ModeCloseDoor
	ModePutFood
	ModeCloseDoorPutFood
)

func (m Mode) String() string {
	switch m {
	case ModeSetTime:
		return "SET_TIME"
	case ModeRemaining:
		return "REMAINING_DISPLAY"
	case ModeCloseDoor:
		return "CLOSE_DOOR"
	case ModePutFood:
		return "PUT_FOOD"
	case ModeCloseDoorPutFood:
		return "CLOSE_DOOR_PUT_FOOD"
	default:
		return fmt.Sprintf("MODE(%d)", uint8(m))
	}
}

// Output is the commanded state of the heating elements.
type Output uint8

const (
	StopHeating Output = iota
	StartHeating
)

func (o Output) String() string {
	if o == StartHeating {
		return "START_HEATING"
	}
	return "STOP_HEATING"
}

// On reports whether the heater, lamp and motor should be energised.
func (o Output) On() bool {
	return o == StartHeating
}

// State represents the logical state of a sensor.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// StateOf converts a sensor flag to its logical state.
func StateOf(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}

// EventType represents an observable change of the oven.
type EventType string

const (
	EventMode       EventType = "MODE"
	EventHeatingOn  EventType = "HEATING_ON"
	EventHeatingOff EventType = "HEATING_OFF"
	EventCookDone   EventType = "COOK_DONE"
	EventDoorOn     EventType = "DOOR_ON"
	EventDoorOff    EventType = "DOOR_OFF"
	EventWeightOn   EventType = "WEIGHT_ON"
	EventWeightOff  EventType = "WEIGHT_OFF"
)

// Event represents a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Mode
	Output    Output
	Door      State
	Weight    State
	SetTime   uint32
	Remaining uint32
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	ModeChanges int
	HeatingOn   int
	HeatingOff  int
	CookDone    int
	DoorOn      int
	DoorOff     int
	WeightOn    int
	WeightOff   int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
