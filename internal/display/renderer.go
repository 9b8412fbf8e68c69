package display

import (
	"fmt"
	"strings"

	"github.com/sweeney/microwave/internal/logic"
)

// Screen texts.
const (
	TextSetTime          = "Set Heating Time"
	TextRemaining        = "Remaining Time"
	TextCloseDoor        = "Close Door"
	TextPutFood          = "Put Food First"
	TextCloseDoorPutFood = "CloseDoorPutFood"
)

var blankLine = strings.Repeat(" ", Columns)

// Flusher is implemented by displays that buffer a frame.
type Flusher interface {
	Flush() error
}

// Renderer is the display task. It only reads the shared state.
type Renderer struct {
	state logic.View
	disp  Display
}

// NewRenderer creates the display task.
func NewRenderer(state logic.View, disp Display) *Renderer {
	return &Renderer{state: state, disp: disp}
}

// Init shows the startup banner.
func (r *Renderer) Init() error {
	if err := r.disp.Clear(); err != nil {
		return fmt.Errorf("display init: %w", err)
	}
	if err := r.disp.WriteString(TextSetTime); err != nil {
		return fmt.Errorf("display init: %w", err)
	}
	return r.flush()
}

// Run renders the screen for the current mode.
func (r *Renderer) Run() error {
	var err error
	switch mode := r.state.Mode(); mode {
	case logic.ModeSetTime:
		err = r.numeric(TextSetTime, r.state.SetTime())
	case logic.ModeRemaining:
		err = r.numeric(TextRemaining, r.state.RemainingTime())
	case logic.ModeCloseDoor:
		err = r.message(TextCloseDoor)
	case logic.ModePutFood:
		err = r.message(TextPutFood)
	case logic.ModeCloseDoorPutFood:
		err = r.message(TextCloseDoorPutFood)
	default:
		return fmt.Errorf("display: unknown mode %s", mode)
	}
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return r.flush()
}

// numeric blanks and rewrites both rows: label on top, value below.
func (r *Renderer) numeric(label string, value uint32) error {
	if err := r.line(0, func() error { return r.disp.WriteString(label) }); err != nil {
		return err
	}
	return r.line(1, func() error { return r.disp.WriteNumber(value) })
}

func (r *Renderer) line(row int, write func() error) error {
	if err := r.disp.GoTo(row, 0); err != nil {
		return err
	}
	if err := r.disp.WriteString(blankLine); err != nil {
		return err
	}
	if err := r.disp.GoTo(row, 0); err != nil {
		return err
	}
	return write()
}

// message clears the display and writes text on the top row.
func (r *Renderer) message(text string) error {
	if err := r.disp.Clear(); err != nil {
		return err
	}
	if err := r.disp.GoTo(0, 0); err != nil {
		return err
	}
	return r.disp.WriteString(text)
}

func (r *Renderer) flush() error {
	if f, ok := r.disp.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
