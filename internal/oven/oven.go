// Package oven assembles the microwave's five tasks into a scheduler table.
package oven

import (
	"errors"
	"fmt"

	"github.com/sweeney/microwave/internal/display"
	"github.com/sweeney/microwave/internal/gpio"
	"github.com/sweeney/microwave/internal/logic"
	"github.com/sweeney/microwave/internal/scheduler"
)

// Task IDs, in registration order.
const (
	TaskInput = iota
	TaskSensors
	TaskMode
	TaskDisplay
	TaskOutput
)

// TaskPeriod is the period of every task, in base ticks.
const TaskPeriod = 2

// Task priorities. Lower runs first within a tick.
const (
	PriorityInput   = 1
	PrioritySensors = 1
	PriorityMode    = 2
	PriorityDisplay = 3
	PriorityOutput  = 3
)

// Config holds the oven's device collaborators.
type Config struct {
	Keys    logic.KeySource
	Sensors logic.Sensors // nil selects simulated sensors
	Display display.Display
	Outputs gpio.Writer
}

// Oven owns the shared state and the task table.
type Oven struct {
	shared     *logic.Shared
	sched      *scheduler.Scheduler
	controller *logic.Controller
	renderer   *display.Renderer
	actuator   *gpio.Actuator
}

// New wires the tasks onto a fresh shared state and registers them.
func New(cfg Config) (*Oven, error) {
	if cfg.Keys == nil || cfg.Display == nil || cfg.Outputs == nil {
		return nil, errors.New("oven: keys, display and outputs are required")
	}
	sensors := cfg.Sensors
	if sensors == nil {
		sensors = logic.NewSimulatedSensors()
	}

	shared := logic.NewShared()
	o := &Oven{
		shared:     shared,
		sched:      scheduler.New(),
		controller: logic.NewController(shared),
		renderer:   display.NewRenderer(shared, cfg.Display),
		actuator:   gpio.NewActuator(shared, cfg.Outputs),
	}

	tasks := []struct {
		id       int
		task     scheduler.Task
		priority int
	}{
		{TaskInput, logic.NewInputCapture(cfg.Keys, shared).Run, PriorityInput},
		{TaskSensors, logic.NewSensorCapture(sensors, shared, shared).Run, PrioritySensors},
		{TaskMode, o.controller.Run, PriorityMode},
		{TaskDisplay, o.renderer.Run, PriorityDisplay},
		{TaskOutput, o.actuator.Run, PriorityOutput},
	}
	for _, t := range tasks {
		if err := o.sched.Register(t.id, TaskPeriod, t.task, t.priority); err != nil {
			return nil, fmt.Errorf("oven: %w", err)
		}
	}
	return o, nil
}

// Init shows the startup banner and drives every output to its idle level.
func (o *Oven) Init() error {
	return errors.Join(o.renderer.Init(), o.actuator.Run())
}

// Tick advances the scheduler by one base tick.
func (o *Oven) Tick() error {
	return o.sched.Tick()
}

// Ticks returns the number of base ticks run so far.
func (o *Oven) Ticks() uint64 {
	return o.sched.Ticks()
}

// Snapshot returns a copy of the shared state.
func (o *Oven) Snapshot() logic.Snapshot {
	return o.shared.Snapshot()
}

// Off drives every output low. The shared state is left untouched.
func (o *Oven) Off() error {
	return o.actuator.Off()
}
