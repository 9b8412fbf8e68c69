package gpio

import (
	"errors"
	"fmt"
	"log"
)

// FakeReader is a test double that returns scripted sensor values.
type FakeReader struct {
	// Samples contains scripted (doorOn, weightOn) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single sensor reading (already in logical form).
type Sample struct {
	Door   bool // true = ON
	Weight bool // true = ON
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Door, sample.Weight, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeWriter records output levels for test assertions.
type FakeWriter struct {
	// Levels holds the last value written to each line.
	Levels [numLines]bool

	// Writes counts Set calls.
	Writes int

	// Raised records lines that were driven high at least once.
	Raised [numLines]bool

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWriter creates a FakeWriter with every output low.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// Set records the level.
func (f *FakeWriter) Set(line Line, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if line < 0 || line >= numLines {
		return fmt.Errorf("set %s: no such line", line)
	}
	f.Levels[line] = on
	if on {
		f.Raised[line] = true
	}
	f.Writes++
	return nil
}

// Level returns the last value written to line.
func (f *FakeWriter) Level(line Line) bool {
	return f.Levels[line]
}

// Close drives every output low and marks the writer closed.
func (f *FakeWriter) Close() error {
	f.Levels = [numLines]bool{}
	f.Closed = true
	return nil
}

// LogWriter is a Writer for running without output hardware: it keeps the
// levels in memory and logs every change.
type LogWriter struct {
	levels [numLines]bool
}

// NewLogWriter creates a LogWriter with every output low.
func NewLogWriter() *LogWriter {
	return &LogWriter{}
}

// Set logs the level when it changes.
func (w *LogWriter) Set(line Line, on bool) error {
	if line < 0 || line >= numLines {
		return fmt.Errorf("set %s: no such line", line)
	}
	if w.levels[line] != on {
		log.Printf("output: %s=%s", line, onOff(on))
	}
	w.levels[line] = on
	return nil
}

// Close drives every output low.
func (w *LogWriter) Close() error {
	for _, l := range Lines() {
		w.Set(l, false)
	}
	return nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
