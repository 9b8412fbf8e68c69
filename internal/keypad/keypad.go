// Package keypad provides key sources that follow the keypad driver
// contract: one key per Read, NoKey when nothing is pressed.
package keypad

// NoKey is returned by Read when no key is waiting.
const NoKey byte = '?'

// Normalize maps a typed character onto the keypad: digits and A-D
// (either case). ok is false for anything the keypad doesn't have.
func Normalize(c byte) (key byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		return c, true
	case c >= 'A' && c <= 'D':
		return c, true
	case c >= 'a' && c <= 'd':
		return c - 'a' + 'A', true
	default:
		return 0, false
	}
}

// Queue buffers key presses from asynchronous sources (terminal, web) and
// hands them out one per Read. It is safe for concurrent use.
type Queue struct {
	ch chan byte
}

// NewQueue creates a queue holding up to size pending keys.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan byte, size)}
}

// Push enqueues a key. Keys the keypad doesn't have are rejected, and so is
// any key arriving while the queue is full. Reports whether it was queued.
func (q *Queue) Push(c byte) bool {
	k, ok := Normalize(c)
	if !ok {
		return false
	}
	select {
	case q.ch <- k:
		return true
	default:
		return false
	}
}

// Read returns the oldest pending key, or NoKey.
func (q *Queue) Read() byte {
	select {
	case k := <-q.ch:
		return k
	default:
		return NoKey
	}
}

// Len returns the number of pending keys.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Fake is a test double that returns scripted keys, then NoKey.
type Fake struct {
	Keys  []byte
	index int
}

// NewFake creates a Fake from a key script such as "12D".
func NewFake(script string) *Fake {
	return &Fake{Keys: []byte(script)}
}

// Read returns the next scripted key. A '.' in the script reads as NoKey.
func (f *Fake) Read() byte {
	if f.index >= len(f.Keys) {
		return NoKey
	}
	k := f.Keys[f.index]
	f.index++
	if k == '.' {
		return NoKey
	}
	return k
}

// Remaining returns how many scripted keys are left.
func (f *Fake) Remaining() int {
	return len(f.Keys) - f.index
}
