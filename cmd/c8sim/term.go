//go:build linux || darwin

package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/sarchlab/c8sim/emu"
)

// terminalFrontend renders to an ANSI terminal in raw mode and reads keys
// from stdin on a background goroutine.
type terminalFrontend struct {
	in      *os.File
	out     io.Writer
	restore unix.Termios
	input   chan byte
	hold    keyHold
}

func newTerminalFrontend() (Frontend, error) {
	return &terminalFrontend{
		in:    os.Stdin,
		out:   os.Stdout,
		input: make(chan byte, 64),
	}, nil
}

// Init switches the terminal to raw mode and starts the input reader.
func (t *terminalFrontend) Init() error {
	fd := int(t.in.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("reading terminal state: %w", err)
	}

	t.restore = *termios
	raw := *termios

	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}

	// Clear screen and hide the cursor.
	_, _ = io.WriteString(t.out, "\x1b[2J\x1b[?25l")

	go t.readInput()
	return nil
}

func (t *terminalFrontend) readInput() {
	buf := make([]byte, 16)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			t.input <- b
		}
		if err != nil {
			close(t.input)
			return
		}
	}
}

// Poll drains the bytes read since the last frame. A closed stdin quits.
func (t *terminalFrontend) Poll() ([]KeyEvent, bool) {
	var pending []byte
	for {
		select {
		case b, ok := <-t.input:
			if !ok {
				return nil, true
			}
			pending = append(pending, b)
		default:
			return t.hold.frame(pending)
		}
	}
}

func (t *terminalFrontend) Render(frame *[emu.DisplaySize]bool) error {
	if _, err := io.WriteString(t.out, cursorHome); err != nil {
		return err
	}
	return renderFrame(t.out, frame)
}

// Beep rings the terminal bell when the sound timer starts.
func (t *terminalFrontend) Beep(on bool) {
	if on {
		_, _ = io.WriteString(t.out, "\a")
	}
}

// Close restores the saved terminal state.
func (t *terminalFrontend) Close() error {
	_, _ = io.WriteString(t.out, "\x1b[?25h\r\n")
	if err := unix.IoctlSetTermios(int(t.in.Fd()), ioctlSetTermios, &t.restore); err != nil {
		return fmt.Errorf("restoring terminal state: %w", err)
	}
	return nil
}
