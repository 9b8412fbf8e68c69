package display

import "fmt"

// Fake is a test double: a Frame that also records every command.
type Fake struct {
	*Frame

	// Ops lists the commands received, e.g. "clear", "goto 1,0".
	Ops []string

	// Flushes counts Flush calls.
	Flushes int

	// WriteError, if set, is returned by every command.
	WriteError error
}

// NewFake creates a blank Fake.
func NewFake() *Fake {
	return &Fake{Frame: NewFrame()}
}

func (f *Fake) Clear() error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, "clear")
	return f.Frame.Clear()
}

func (f *Fake) GoTo(row, col int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, fmt.Sprintf("goto %d,%d", row, col))
	return f.Frame.GoTo(row, col)
}

func (f *Fake) WriteString(s string) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, fmt.Sprintf("string %q", s))
	return f.Frame.WriteString(s)
}

func (f *Fake) WriteNumber(n uint32) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, fmt.Sprintf("number %d", n))
	return f.Frame.WriteNumber(n)
}

// Flush counts frame completions.
func (f *Fake) Flush() error {
	f.Flushes++
	return nil
}

// Reset clears recorded commands.
func (f *Fake) Reset() {
	f.Ops = nil
	f.Flushes = 0
	f.WriteError = nil
}
