package core_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

func rom(opcodes ...uint16) []byte {
	data := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		data = append(data, byte(op>>8), byte(op))
	}
	return data
}

var _ = Describe("Core", func() {
	var (
		e *emu.Emulator
		c *core.Core
	)

	newCore := func(table *latency.Table, opcodes ...uint16) {
		Expect(e.LoadProgram(rom(opcodes...))).To(Succeed())
		c = core.NewCore(e, table)
	}

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	It("should run 700 steps and 60 ticks per second by default", func() {
		newCore(latency.NewTable(), 0x1200)

		Expect(c.Advance(time.Second)).To(Succeed())

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(700)))
		Expect(stats.Cycles).To(Equal(uint64(700)))
		Expect(stats.TimerTicks).To(Equal(uint64(60)))
		Expect(c.Now()).To(Equal(time.Second))
		Expect(c.Halted()).To(BeFalse())
	})

	It("should decrement the delay timer at the timer frequency", func() {
		// DT = 60, then spin
		newCore(latency.NewTable(), 0x603C, 0xF015, 0x1204)

		Expect(c.Advance(500 * time.Millisecond)).To(Succeed())

		Expect(e.Timers().Delay).To(Equal(uint8(30)))
		Expect(c.Stats().TimerTicks).To(Equal(uint64(30)))
	})

	It("should not depend on how time is split", func() {
		program := []uint16{
			0x6A3C, // VA = 60
			0xFA15, // DT = VA
			0xF107, // V1 = DT
			0x8014, // V0 += V1
			0x1204, // loop to V1 = DT
		}

		newCore(latency.NewTable(), program...)
		Expect(c.Advance(time.Second)).To(Succeed())
		whole := c

		e = emu.NewEmulator()
		newCore(latency.NewTable(), program...)
		for _, d := range []time.Duration{
			123 * time.Millisecond,
			77 * time.Millisecond,
			300 * time.Millisecond,
			time.Millisecond,
			499 * time.Millisecond,
		} {
			Expect(c.Advance(d)).To(Succeed())
		}

		Expect(c.Stats()).To(Equal(whole.Stats()))
		Expect(*c.Emulator().RegFile()).To(Equal(*whole.Emulator().RegFile()))
		Expect(*c.Emulator().Timers()).To(Equal(*whole.Emulator().Timers()))
	})

	It("should charge cycles from the latency table", func() {
		config := latency.DefaultTimingConfig()
		config.ALULatency = 2
		newCore(latency.NewTableWithConfig(config), 0x7001, 0x1200)

		Expect(c.Advance(time.Second)).To(Succeed())

		// Each loop costs 3 cycles; steps start before cycle 700.
		Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(234)))
		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(467)))
		Expect(stats.Cycles).To(Equal(uint64(701)))
	})

	It("should halt on a fatal error and keep reporting it", func() {
		newCore(latency.NewTable(), 0x00EE)

		err := c.Advance(time.Second)

		Expect(err).To(MatchError(emu.ErrStackUnderflow))
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Err()).To(MatchError(emu.ErrStackUnderflow))
		Expect(c.Advance(time.Second)).To(MatchError(emu.ErrStackUnderflow))
		Expect(c.Stats().Instructions).To(Equal(uint64(1)))
	})

	It("should count decode errors and keep running", func() {
		newCore(latency.NewTable(), 0x0000, 0x1202)

		Expect(c.Advance(10 * time.Millisecond)).To(Succeed())

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(7)))
		Expect(stats.DecodeErrors).To(Equal(uint64(1)))

		var unknown *insts.UnknownOpcodeError
		Expect(errors.As(c.LastError(), &unknown)).To(BeTrue())
	})

	It("should retry a key wait until a key is pressed", func() {
		newCore(latency.NewTable(), 0xF00A, 0x1202)

		Expect(c.Advance(100 * time.Millisecond)).To(Succeed())
		Expect(c.Stats().KeyWaits).To(Equal(uint64(70)))
		Expect(e.RegFile().PC).To(Equal(uint16(0x200)))

		e.SetKey(0x5, true)
		Expect(c.Advance(100 * time.Millisecond)).To(Succeed())

		Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(0x5)))
		Expect(e.RegFile().PC).To(Equal(uint16(0x202)))
		Expect(c.Stats().KeyWaits).To(Equal(uint64(70)))
	})

	It("should stop at the instruction limit", func() {
		e = emu.NewEmulator(emu.WithMaxInstructions(10))
		newCore(latency.NewTable(), 0x1200)

		err := c.Advance(time.Second)

		Expect(err).To(MatchError(emu.ErrMaxInstructions))
		Expect(c.Stats().Instructions).To(Equal(uint64(10)))
	})

	Describe("RunCycles", func() {
		It("should run cycles and the ticks inside them", func() {
			newCore(latency.NewTable(), 0x1200)

			Expect(c.RunCycles(700)).To(Succeed())

			stats := c.Stats()
			Expect(stats.Cycles).To(Equal(uint64(700)))
			Expect(stats.TimerTicks).To(Equal(uint64(60)))
			Expect(c.Now()).To(Equal(time.Second))
		})

		It("should continue from where Advance stopped", func() {
			newCore(latency.NewTable(), 0x1200)

			Expect(c.Advance(500 * time.Millisecond)).To(Succeed())
			Expect(c.RunCycles(350)).To(Succeed())

			stats := c.Stats()
			Expect(stats.Cycles).To(Equal(uint64(700)))
			Expect(stats.TimerTicks).To(Equal(uint64(60)))
		})
	})

	It("should reset core state", func() {
		newCore(latency.NewTable(), 0x00EE)
		Expect(c.Advance(time.Second)).NotTo(Succeed())

		c.Reset()

		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(c.Now()).To(BeZero())
		Expect(c.Halted()).To(BeFalse())
		Expect(e.RegFile().PC).To(Equal(uint16(emu.ProgramStart)))
	})
})
