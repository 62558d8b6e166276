package main

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("machine", func() {
	It("should run headless and print the final frame", func() {
		m := buildMachine(words(
			0xA000, // I = glyph 0
			0xD015, // DRW V0, V1, 5
			0x1204, // JP 0x204
		), true)

		var buf bytes.Buffer
		Expect(m.runHeadless(100, &buf)).To(Succeed())

		Expect(m.core.Stats().Cycles).To(Equal(uint64(100)))
		lines := strings.Split(buf.String(), "\r\n")
		Expect(lines[0]).To(HavePrefix("█▀▀█ "))
		Expect(lines[1]).To(HavePrefix("█  █ "))
		Expect(lines[2]).To(HavePrefix("▀▀▀▀ "))
	})

	It("should default to ten virtual seconds without a cycle limit", func() {
		m := buildMachine(words(0x1200), false)

		Expect(m.runHeadless(0, &bytes.Buffer{})).To(Succeed())

		Expect(m.core.Stats().Cycles).To(Equal(uint64(7000)))
		Expect(m.core.Stats().TimerTicks).To(Equal(uint64(600)))
	})

	It("should print the final frame even when the core halts", func() {
		m := buildMachine(words(0x00EE), false)

		var buf bytes.Buffer
		err := m.runHeadless(100, &buf)

		Expect(err).To(HaveOccurred())
		Expect(buf.Len()).NotTo(BeZero())
	})

	It("should report decode cache statistics", func() {
		m := buildMachine(words(0x6001, 0x1202), true)
		Expect(m.runHeadless(50, &bytes.Buffer{})).To(Succeed())

		var buf bytes.Buffer
		m.printStats(&buf)

		Expect(buf.String()).To(ContainSubstring("Cycles: 50"))
		Expect(buf.String()).To(ContainSubstring("Decode cache: 48 hits, 2 misses"))
	})

	It("should report decode errors", func() {
		m := buildMachine(words(0xFFFF, 0x1202), false)
		Expect(m.runHeadless(10, &bytes.Buffer{})).To(Succeed())

		var buf bytes.Buffer
		m.printStats(&buf)

		Expect(buf.String()).To(ContainSubstring("Decode errors: 1"))
		Expect(buf.String()).NotTo(ContainSubstring("Decode cache"))
	})
})
