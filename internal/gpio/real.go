//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "microwave"

// RealReader reads the door and weight sensors from actual hardware using
// Linux GPIO character device.
type RealReader struct {
	chip      *gpiocdev.Chip
	doorPin   *gpiocdev.Line
	weightPin *gpiocdev.Line
}

// NewRealReader creates a sensor reader for actual Raspberry Pi hardware.
func NewRealReader(chipName string, pinDoor, pinWeight int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	doorLine, err := chip.RequestLine(pinDoor, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request door pin %d: %w", pinDoor, err)
	}

	weightLine, err := chip.RequestLine(pinWeight, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		doorLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request weight pin %d: %w", pinWeight, err)
	}

	return &RealReader{
		chip:      chip,
		doorPin:   doorLine,
		weightPin: weightLine,
	}, nil
}

// Read returns the logical states of the door and weight sensors.
// Inverts raw GPIO: raw 0 (switch closed to ground) = logical ON.
func (r *RealReader) Read() (bool, bool, error) {
	doorRaw, err := r.doorPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read door pin: %w", err)
	}

	weightRaw, err := r.weightPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read weight pin: %w", err)
	}

	return doorRaw == 0, weightRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error

	if r.doorPin != nil {
		if err := r.doorPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close door pin: %w", err))
		}
	}
	if r.weightPin != nil {
		if err := r.weightPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close weight pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealWriter drives the oven outputs on actual hardware.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines [numLines]*gpiocdev.Line
}

// NewRealWriter requests every output line, driven low.
func NewRealWriter(chipName string, pins OutputPins) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{chip: chip}
	for _, l := range Lines() {
		line, err := chip.RequestLine(pins[l], gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", l, pins[l], err)
		}
		w.lines[l] = line
	}
	return w, nil
}

// Set drives one output.
func (w *RealWriter) Set(line Line, on bool) error {
	if line < 0 || line >= numLines || w.lines[line] == nil {
		return fmt.Errorf("set %s: line not requested", line)
	}
	v := 0
	if on {
		v = 1
	}
	if err := w.lines[line].SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", line, err)
	}
	return nil
}

// Close drives every output low, then releases the lines as inputs so
// nothing stays energised after the process exits.
func (w *RealWriter) Close() error {
	var errs []error

	for _, l := range Lines() {
		line := w.lines[l]
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive %s low: %w", l, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", l, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", l, err))
		}
		w.lines[l] = nil
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		w.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
