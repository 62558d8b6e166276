// Package core paces a functional emulator in virtual time.
// It interleaves instruction steps, each costing cycles from a latency
// table, with delay/sound timer ticks at a fixed frequency.
package core

import (
	"errors"
	"math"
	"math/bits"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of steps taken, key-wait retries included.
	Instructions uint64
	// TimerTicks is the number of timer ticks delivered.
	TimerTicks uint64
	// DecodeErrors is the number of steps that hit an unknown opcode.
	DecodeErrors uint64
	// KeyWaits is the number of steps that ended waiting for a key.
	KeyWaits uint64
}

// Core advances an emulator by spans of virtual time.
//
// Steps and ticks are ordered by their virtual start time. A tick that is
// due at the same instant as a step is delivered first. The ordering
// depends only on the configured frequencies and latencies, so the same
// sequence of Advance calls always produces the same machine state.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table

	cpuFreq   uint64
	timerFreq uint64

	now     time.Duration
	stats   Stats
	lastErr error
	err     error
}

// NewCore creates a Core driving e with the costs and frequencies of table.
func NewCore(e *emu.Emulator, table *latency.Table) *Core {
	return &Core{
		emulator:  e,
		table:     table,
		cpuFreq:   table.Config().CPUFrequency,
		timerFreq: table.Config().TimerFrequency,
	}
}

// Emulator returns the driven emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Now returns the virtual time advanced so far.
func (c *Core) Now() time.Duration {
	return c.now
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Halted returns true if the core stopped on a fatal error or the
// instruction limit.
func (c *Core) Halted() bool {
	return c.err != nil
}

// Err returns the error that halted the core, if any.
func (c *Core) Err() error {
	return c.err
}

// LastError returns the most recent recoverable step error.
func (c *Core) LastError() error {
	return c.lastErr
}

// Advance runs the machine for d of virtual time. It returns the halting
// error if the core stops, and keeps returning it on later calls.
func (c *Core) Advance(d time.Duration) error {
	if c.err != nil {
		return c.err
	}
	if d <= 0 {
		return nil
	}

	c.now += d
	target := uint64(c.now)

	// Steps that start before the target run; ticks due at or before it
	// are delivered.
	return c.runUntil(
		mulDivCeil(target, c.cpuFreq, uint64(time.Second)),
		mulDiv(target, c.timerFreq, uint64(time.Second)),
	)
}

// RunCycles runs the machine for n more cycles, delivering the timer
// ticks that fall inside them.
func (c *Core) RunCycles(n uint64) error {
	if c.err != nil {
		return c.err
	}

	cycleLimit := c.stats.Cycles + n
	if cycleLimit < c.stats.Cycles {
		cycleLimit = math.MaxUint64
	}

	end := time.Duration(min(mulDiv(cycleLimit, uint64(time.Second), c.cpuFreq), math.MaxInt64))
	if end > c.now {
		c.now = end
	}

	return c.runUntil(cycleLimit, mulDiv(cycleLimit, c.timerFreq, c.cpuFreq))
}

// Reset resets the emulator and clears virtual time and statistics.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.now = 0
	c.stats = Stats{}
	c.lastErr = nil
	c.err = nil
}

// runUntil steps until the next step would start at or after cycleLimit
// and tickLimit ticks have been delivered.
func (c *Core) runUntil(cycleLimit, tickLimit uint64) error {
	for c.stats.Cycles < cycleLimit || c.stats.TimerTicks < tickLimit {
		if c.stats.TimerTicks < tickLimit &&
			(c.stats.Cycles >= cycleLimit || c.tickDue()) {
			c.emulator.TickTimer()
			c.stats.TimerTicks++
			continue
		}

		if err := c.step(); err != nil {
			return err
		}
	}

	return nil
}

// tickDue reports whether the next tick starts no later than the next
// step: (ticks+1)/timerFreq <= cycles/cpuFreq.
func (c *Core) tickDue() bool {
	tickHi, tickLo := bits.Mul64(c.stats.TimerTicks+1, c.cpuFreq)
	stepHi, stepLo := bits.Mul64(c.stats.Cycles, c.timerFreq)
	if tickHi != stepHi {
		return tickHi < stepHi
	}
	return tickLo <= stepLo
}

func (c *Core) step() error {
	result := c.emulator.Step()
	if errors.Is(result.Err, emu.ErrMaxInstructions) {
		c.err = result.Err
		return c.err
	}

	c.stats.Cycles += c.table.GetLatency(result.Inst)
	c.stats.Instructions++
	if result.WaitingForKey {
		c.stats.KeyWaits++
	}

	if result.Err == nil {
		return nil
	}

	if emu.IsFatal(result.Err) {
		c.err = result.Err
		return c.err
	}

	c.stats.DecodeErrors++
	c.lastErr = result.Err
	return nil
}

// mulDiv returns a*b/c without intermediate overflow, saturating at
// math.MaxUint64.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// mulDivCeil returns a*b/c rounded up.
func mulDivCeil(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxUint64
	}
	q, r := bits.Div64(hi, lo, c)
	if r != 0 {
		q++
	}
	return q
}
