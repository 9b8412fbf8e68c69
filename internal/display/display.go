// Package display renders the oven state on a 16x2 character display.
package display

import "strconv"

// Display geometry.
const (
	Rows    = 2
	Columns = 16
)

// Display is the character display driver contract.
type Display interface {
	Clear() error
	GoTo(row, col int) error
	WriteString(s string) error
	WriteNumber(n uint32) error
}

// Frame is an in-memory 16x2 character buffer with a cursor. Writes past
// the end of a row are dropped, as on the hardware.
type Frame struct {
	cells [Rows][Columns]byte
	row   int
	col   int
}

// NewFrame returns a blank frame with the cursor at the origin.
func NewFrame() *Frame {
	f := &Frame{}
	f.Clear()
	return f
}

// Clear blanks the frame and homes the cursor.
func (f *Frame) Clear() error {
	for r := range f.cells {
		for c := range f.cells[r] {
			f.cells[r][c] = ' '
		}
	}
	f.row, f.col = 0, 0
	return nil
}

// GoTo moves the cursor. Out-of-range positions are clamped.
func (f *Frame) GoTo(row, col int) error {
	f.row = clamp(row, 0, Rows-1)
	f.col = clamp(col, 0, Columns)
	return nil
}

// WriteString writes s at the cursor and advances it.
func (f *Frame) WriteString(s string) error {
	for i := 0; i < len(s) && f.col < Columns; i++ {
		f.cells[f.row][f.col] = s[i]
		f.col++
	}
	return nil
}

// WriteNumber writes n in decimal at the cursor.
func (f *Frame) WriteNumber(n uint32) error {
	return f.WriteString(strconv.FormatUint(uint64(n), 10))
}

// Line returns row r with trailing blanks.
func (f *Frame) Line(r int) string {
	return string(f.cells[r][:])
}

// Lines returns both rows.
func (f *Frame) Lines() [Rows]string {
	var out [Rows]string
	for r := range out {
		out[r] = f.Line(r)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
