package emu_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
)

// litPixels lists the coordinates of every lit pixel in row-major order.
func litPixels(d *emu.Display) [][2]int {
	var lit [][2]int
	for y := 0; y < emu.DisplayHeight; y++ {
		for x := 0; x < emu.DisplayWidth; x++ {
			if d.Pixel(x, y) {
				lit = append(lit, [2]int{x, y})
			}
		}
	}
	return lit
}

var _ = Describe("Display", func() {
	var display *emu.Display

	BeforeEach(func() {
		display = emu.NewDisplay()
	})

	It("should start blank with no redraw pending", func() {
		Expect(litPixels(display)).To(BeEmpty())
		Expect(display.RedrawPending()).To(BeFalse())
	})

	It("should draw a row MSB first", func() {
		collision := display.DrawSprite(0, 0, []byte{0b1010_0001})

		Expect(collision).To(BeFalse())
		Expect(cmp.Diff([][2]int{{0, 0}, {2, 0}, {7, 0}}, litPixels(display))).To(BeEmpty())
		Expect(display.RedrawPending()).To(BeTrue())
	})

	It("should store pixels row-major", func() {
		display.DrawSprite(3, 2, []byte{0x80})

		snapshot := display.Snapshot()
		Expect(snapshot[3+2*emu.DisplayWidth]).To(BeTrue())
	})

	It("should XOR and report collision", func() {
		display.DrawSprite(10, 10, []byte{0xFF})

		collision := display.DrawSprite(10, 10, []byte{0xFF})

		Expect(collision).To(BeTrue())
		Expect(litPixels(display)).To(BeEmpty())
	})

	It("should not report collision when only unset pixels change", func() {
		display.DrawSprite(0, 0, []byte{0xF0})

		collision := display.DrawSprite(0, 0, []byte{0x0F})

		Expect(collision).To(BeFalse())
		Expect(litPixels(display)).To(HaveLen(8))
	})

	It("should wrap the starting coordinate", func() {
		display.DrawSprite(64+5, 32+1, []byte{0x80})

		Expect(display.Pixel(5, 1)).To(BeTrue())
	})

	It("should clip at the right edge", func() {
		display.DrawSprite(60, 0, []byte{0xFF})

		Expect(cmp.Diff([][2]int{{60, 0}, {61, 0}, {62, 0}, {63, 0}}, litPixels(display))).To(BeEmpty())
	})

	It("should clip at the bottom edge", func() {
		display.DrawSprite(0, 30, []byte{0x80, 0x80, 0x80, 0x80})

		Expect(cmp.Diff([][2]int{{0, 30}, {0, 31}}, litPixels(display))).To(BeEmpty())
	})

	It("should not request a redraw for an empty sprite", func() {
		display.DrawSprite(0, 0, nil)

		Expect(display.RedrawPending()).To(BeFalse())
	})

	It("should blank and request redraw on Clear", func() {
		display.DrawSprite(0, 0, []byte{0xFF})
		display.ClearRedraw()

		display.Clear()

		Expect(litPixels(display)).To(BeEmpty())
		Expect(display.RedrawPending()).To(BeTrue())
	})

	DescribeTable("VisibleRows",
		func(y, n, want uint8) {
			Expect(emu.VisibleRows(y, n)).To(Equal(want))
		},
		Entry("fully visible", uint8(0), uint8(15), uint8(15)),
		Entry("clipped at the bottom", uint8(30), uint8(5), uint8(2)),
		Entry("wrapped start", uint8(33), uint8(5), uint8(5)),
		Entry("zero rows", uint8(31), uint8(0), uint8(0)),
	)
})

var _ = Describe("Keypad", func() {
	var keypad *emu.Keypad

	BeforeEach(func() {
		keypad = &emu.Keypad{}
	})

	It("should report the lowest pressed key first", func() {
		keypad.Set(0xB, true)
		keypad.Set(0x4, true)

		key, ok := keypad.FirstPressed()

		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(0x4)))
	})

	It("should ignore keys above 0xF", func() {
		keypad.Set(0x10, true)

		_, ok := keypad.FirstPressed()
		Expect(ok).To(BeFalse())
	})

	It("should select by the low nibble", func() {
		keypad.Set(0x3, true)

		Expect(keypad.Pressed(0x13)).To(BeTrue())
	})
})

var _ = Describe("Timers", func() {
	It("should saturate at zero", func() {
		t := &emu.Timers{Delay: 1, Sound: 2}

		t.Tick()
		Expect(t.Delay).To(BeZero())
		Expect(t.SoundActive()).To(BeTrue())

		t.Tick()
		t.Tick()
		Expect(t.Delay).To(BeZero())
		Expect(t.Sound).To(BeZero())
		Expect(t.SoundActive()).To(BeFalse())
	})
})
