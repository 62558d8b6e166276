// Package emu provides functional CHIP-8 emulation.
package emu

// Timers holds the delay and sound countdown timers. They are decremented
// by Tick at the host's timer cadence, never by instruction execution.
type Timers struct {
	Delay uint8
	Sound uint8
}

// Tick decrements both timers by one, stopping at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// SoundActive reports whether the beeper should be on.
func (t *Timers) SoundActive() bool {
	return t.Sound > 0
}
