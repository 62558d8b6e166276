package main

import (
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/core"
)

// frameRate is the host refresh rate. Each frame advances the machine by
// 1/frameRate of virtual time.
const frameRate = 60

// KeyEvent is a keypad transition reported by a frontend.
type KeyEvent struct {
	Key     uint8
	Pressed bool
}

// Frontend is a host surface that renders the framebuffer, reports
// keypad input and drives the beeper.
type Frontend interface {
	Init() error
	// Poll returns the key transitions since the last call and whether
	// the user asked to quit.
	Poll() ([]KeyEvent, bool)
	Render(frame *[emu.DisplaySize]bool) error
	Beep(on bool)
	Close() error
}

// host paces a core in real time against a frontend.
type host struct {
	core      *core.Core
	frontend  Frontend
	maxCycles uint64
}

// run advances the machine one frame per value received on ticks until
// the frontend quits, the cycle limit is reached, ticks is closed or the
// core halts.
func (h *host) run(ticks <-chan time.Time) error {
	e := h.core.Emulator()
	beeping := false

	for range ticks {
		events, quit := h.frontend.Poll()
		if quit {
			return nil
		}
		for _, ev := range events {
			e.SetKey(ev.Key, ev.Pressed)
		}

		err := h.core.Advance(time.Second / frameRate)

		if e.Display().RedrawPending() {
			frame := e.Display().Snapshot()
			if rerr := h.frontend.Render(&frame); rerr != nil {
				return rerr
			}
			e.Display().ClearRedraw()
		}

		if sound := e.SoundActive(); sound != beeping {
			beeping = sound
			h.frontend.Beep(sound)
		}

		if err != nil {
			return err
		}
		if h.maxCycles > 0 && h.core.Stats().Cycles >= h.maxCycles {
			return nil
		}
	}

	return nil
}
