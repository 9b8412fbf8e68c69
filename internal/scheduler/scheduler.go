// Package scheduler runs periodic tasks cooperatively from a single base tick.
// Tasks never overlap: each due task runs to completion, in priority order,
// on the goroutine that calls Tick.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
)

// Task is one periodic job. A returned error is reported, never fatal.
type Task func() error

type entry struct {
	id       int
	period   uint64
	priority int
	order    int
	run      Task
}

// Scheduler holds the task table.
type Scheduler struct {
	tasks []entry
	tick  uint64
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Register adds a task that runs every period base ticks. Lower priority
// values run first within a tick; equal priorities run in registration order.
func (s *Scheduler) Register(id int, period int, task Task, priority int) error {
	if task == nil {
		return fmt.Errorf("task %d: nil callback", id)
	}
	if period < 1 {
		return fmt.Errorf("task %d: period %d must be at least 1", id, period)
	}
	for _, e := range s.tasks {
		if e.id == id {
			return fmt.Errorf("task %d: already registered", id)
		}
	}

	s.tasks = append(s.tasks, entry{
		id:       id,
		period:   uint64(period),
		priority: priority,
		order:    len(s.tasks),
		run:      task,
	})
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].priority != s.tasks[j].priority {
			return s.tasks[i].priority < s.tasks[j].priority
		}
		return s.tasks[i].order < s.tasks[j].order
	})
	return nil
}

// Tick runs every task due on the current base tick, then advances it.
// A task is due when the tick count is a multiple of its period, so every
// task runs on the first tick.
func (s *Scheduler) Tick() error {
	var errs []error
	for _, e := range s.tasks {
		if s.tick%e.period != 0 {
			continue
		}
		if err := e.run(); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", e.id, err))
		}
	}
	s.tick++
	return errors.Join(errs...)
}

// Ticks returns how many base ticks have elapsed.
func (s *Scheduler) Ticks() uint64 {
	return s.tick
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}
