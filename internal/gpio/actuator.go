package gpio

import (
	"errors"

	"github.com/sweeney/microwave/internal/logic"
)

// Actuator is the output task: it mirrors the controller's output state and
// the sensor flags onto the oven's output lines.
type Actuator struct {
	state logic.View
	out   Writer
}

// NewActuator creates the output task.
func NewActuator(state logic.View, out Writer) *Actuator {
	return &Actuator{state: state, out: out}
}

// Run drives heater, lamp and motor together from the output state, and the
// two indicators from the sensors. Every line is written even if one fails.
func (a *Actuator) Run() error {
	heat := a.state.Output().On()
	levels := []struct {
		line Line
		on   bool
	}{
		{Heater, heat},
		{Lamp, heat},
		{Motor, heat},
		{DoorLED, a.state.Door()},
		{WeightLED, a.state.Weight()},
	}

	var errs []error
	for _, l := range levels {
		if err := a.out.Set(l.line, l.on); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Off drives every output line low regardless of state. Used on shutdown.
func (a *Actuator) Off() error {
	var errs []error
	for _, l := range Lines() {
		if err := a.out.Set(l, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
