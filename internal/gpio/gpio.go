// Package gpio provides the oven's digital I/O with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "fmt"

// Reader reads the physical sensor inputs.
type Reader interface {
	// Read returns the logical states of the door and weight sensors.
	// Inputs are pulled up and switch to ground: raw 0 = logical ON.
	// Returns (doorOn, weightOn, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Line identifies one output of the oven.
type Line int

const (
	Heater Line = iota
	Lamp
	Motor
	DoorLED
	WeightLED
	numLines
)

func (l Line) String() string {
	switch l {
	case Heater:
		return "heater"
	case Lamp:
		return "lamp"
	case Motor:
		return "motor"
	case DoorLED:
		return "door-led"
	case WeightLED:
		return "weight-led"
	default:
		return fmt.Sprintf("line(%d)", int(l))
	}
}

// Writer drives the oven outputs. Lines are configured as outputs, driven
// low, when the writer is created.
type Writer interface {
	Set(line Line, on bool) error

	// Close drives every output low and releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinHeater    = 17
	DefaultPinLamp      = 27
	DefaultPinMotor     = 22
	DefaultPinDoorLED   = 23
	DefaultPinWeightLED = 24
	DefaultPinDoor      = 5
	DefaultPinWeight    = 6
)

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// OutputPins maps every output line to its pin offset.
type OutputPins [numLines]int

// DefaultOutputPins returns the standard output wiring.
func DefaultOutputPins() OutputPins {
	return OutputPins{
		Heater:    DefaultPinHeater,
		Lamp:      DefaultPinLamp,
		Motor:     DefaultPinMotor,
		DoorLED:   DefaultPinDoorLED,
		WeightLED: DefaultPinWeightLED,
	}
}

// Lines returns every output line in order.
func Lines() []Line {
	return []Line{Heater, Lamp, Motor, DoorLED, WeightLED}
}
