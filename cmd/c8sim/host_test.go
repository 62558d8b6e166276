package main

import (
	"bytes"
	"io"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/latency"
)

type fakeFrontend struct {
	polls   int
	quitAt  int
	events  map[int][]KeyEvent
	renders []*[emu.DisplaySize]bool
	beeps   []bool
}

func (f *fakeFrontend) Init() error { return nil }

func (f *fakeFrontend) Poll() ([]KeyEvent, bool) {
	f.polls++
	if f.quitAt > 0 && f.polls >= f.quitAt {
		return nil, true
	}
	return f.events[f.polls], false
}

func (f *fakeFrontend) Render(frame *[emu.DisplaySize]bool) error {
	copied := *frame
	f.renders = append(f.renders, &copied)
	return nil
}

func (f *fakeFrontend) Beep(on bool) { f.beeps = append(f.beeps, on) }

func (f *fakeFrontend) Close() error { return nil }

func words(ops ...uint16) []byte {
	b := make([]byte, 0, 2*len(ops))
	for _, op := range ops {
		b = append(b, byte(op>>8), byte(op))
	}
	return b
}

func buildMachine(rom []byte, decodeCache bool) *machine {
	prog, err := loader.LoadReader("test.ch8", bytes.NewReader(rom))
	Expect(err).NotTo(HaveOccurred())

	m, err := newMachine(prog, machineConfig{
		seed:        emu.DefaultSeed,
		decodeCache: decodeCache,
		timing:      latency.DefaultTimingConfig(),
		stderr:      io.Discard,
	})
	Expect(err).NotTo(HaveOccurred())
	return m
}

func frames(n int) <-chan time.Time {
	ch := make(chan time.Time, n)
	for i := 0; i < n; i++ {
		ch <- time.Time{}
	}
	close(ch)
	return ch
}

var _ = Describe("host", func() {
	var frontend *fakeFrontend

	BeforeEach(func() {
		frontend = &fakeFrontend{events: map[int][]KeyEvent{}}
	})

	It("should render once per redraw and toggle the beeper", func() {
		m := buildMachine(words(
			0xA000, // I = glyph 0
			0xD015, // DRW V0, V1, 5
			0x6303, // V3 = 3
			0xF318, // ST = V3
			0x1208, // JP 0x208
		), true)

		h := &host{core: m.core, frontend: frontend}
		Expect(h.run(frames(10))).To(Succeed())

		Expect(frontend.renders).To(HaveLen(1))
		Expect(frontend.renders[0][0]).To(BeTrue())
		Expect(frontend.beeps).To(Equal([]bool{true, false}))
		Expect(m.core.Now()).To(Equal(10 * (time.Second / frameRate)))
	})

	It("should stop when the frontend quits", func() {
		m := buildMachine(words(0x1200), false)
		frontend.quitAt = 3

		h := &host{core: m.core, frontend: frontend}
		Expect(h.run(frames(10))).To(Succeed())

		Expect(m.core.Now()).To(Equal(2 * (time.Second / frameRate)))
	})

	It("should deliver key events before advancing", func() {
		m := buildMachine(words(
			0xF00A, // LD V0, K
			0x1202, // JP 0x202
		), false)
		frontend.events[2] = []KeyEvent{{Key: 0xB, Pressed: true}}
		frontend.events[3] = []KeyEvent{{Key: 0xB, Pressed: false}}

		h := &host{core: m.core, frontend: frontend}
		Expect(h.run(frames(4))).To(Succeed())

		Expect(m.core.Emulator().RegFile().ReadReg(0)).To(Equal(uint8(0xB)))
		Expect(m.core.Emulator().RegFile().PC).To(Equal(uint16(0x202)))
	})

	It("should stop at the cycle limit", func() {
		m := buildMachine(words(0x1200), false)

		h := &host{core: m.core, frontend: frontend, maxCycles: 30}
		Expect(h.run(frames(100))).To(Succeed())

		Expect(m.core.Stats().Cycles).To(BeNumerically(">=", 30))
		Expect(frontend.polls).To(Equal(3))
	})

	It("should return the error that halts the core", func() {
		m := buildMachine(words(0x00EE), false)

		h := &host{core: m.core, frontend: frontend}
		err := h.run(frames(5))

		Expect(err).To(MatchError(emu.ErrStackUnderflow))
		Expect(frontend.polls).To(Equal(1))
	})
})
