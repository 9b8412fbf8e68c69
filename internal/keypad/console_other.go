//go:build !linux

package keypad

import (
	"errors"
	"os"
)

// Console is not available on non-Linux platforms.
type Console struct{}

// NewConsole returns an error on non-Linux platforms.
func NewConsole(in *os.File, queue *Queue) (*Console, error) {
	return nil, errors.New("keypad: console not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (c *Console) Read() byte {
	return NoKey
}

// Close is not implemented on non-Linux platforms.
func (c *Console) Close() error {
	return nil
}
