package display

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Console draws the display on a terminal. Commands update an in-memory
// frame; Flush redraws the terminal only when the frame has changed.
type Console struct {
	*Frame
	w     io.Writer
	drawn [Rows]string
	first bool
}

// NewConsole creates a console display writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{Frame: NewFrame(), w: w, first: true}
}

// Flush draws the frame inside a box at the top of the terminal.
func (c *Console) Flush() error {
	lines := c.Lines()
	if !c.first && lines == c.drawn {
		return nil
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", Columns) + "+"
	if c.first {
		b.WriteString("\x1b[2J") // clear screen
	}
	b.WriteString("\x1b[H") // cursor home
	b.WriteString(border + "\r\n")
	for _, l := range lines {
		b.WriteString("|" + l + "|\r\n")
	}
	b.WriteString(border + "\r\n")
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	c.drawn = lines
	c.first = false
	return nil
}

// Logger is a headless display: Flush logs the frame whenever it changes.
type Logger struct {
	*Frame
	drawn [Rows]string
	first bool
}

// NewLogger creates a display that reports frames through the log package.
func NewLogger() *Logger {
	return &Logger{Frame: NewFrame(), first: true}
}

// Flush logs the frame if it differs from the last one logged.
func (l *Logger) Flush() error {
	lines := l.Lines()
	if !l.first && lines == l.drawn {
		return nil
	}
	log.Printf("display: [%s] [%s]", lines[0], lines[1])
	l.drawn = lines
	l.first = false
	return nil
}
