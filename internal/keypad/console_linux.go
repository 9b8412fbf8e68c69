//go:build linux

package keypad

import (
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// Console turns a terminal into a keypad: the terminal is switched to
// non-canonical, no-echo mode and every typed keypad character is pushed onto
// a Queue. Signals (Ctrl-C) keep working.
type Console struct {
	fd      int
	in      *os.File
	old     *unix.Termios
	queue   *Queue
	stopped chan struct{}
}

// NewConsole configures the terminal on in and starts reading it.
func NewConsole(in *os.File, queue *Queue) (*Console, error) {
	fd := int(in.Fd())
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("keypad: get termios: %w", err)
	}

	raw := *old
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, fmt.Errorf("keypad: set termios: %w", err)
	}

	c := &Console{
		fd:      fd,
		in:      in,
		old:     old,
		queue:   queue,
		stopped: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Console) readLoop() {
	defer close(c.stopped)
	buf := make([]byte, 16)
	for {
		n, err := c.in.Read(buf)
		for _, b := range buf[:n] {
			c.queue.Push(b)
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("keypad: read error: %v", err)
			}
			return
		}
	}
}

// Read returns the next typed key, or NoKey.
func (c *Console) Read() byte {
	return c.queue.Read()
}

// Close restores the terminal settings. The reader goroutine exits when
// stdin does.
func (c *Console) Close() error {
	if err := unix.IoctlSetTermios(c.fd, unix.TCSETS, c.old); err != nil {
		return fmt.Errorf("keypad: restore termios: %w", err)
	}
	return nil
}
