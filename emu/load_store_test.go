package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		memory = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(regFile, memory)
	})

	It("should set I", func() {
		lsu.LDI(0x345)

		Expect(regFile.I).To(Equal(uint16(0x345)))
	})

	It("should wrap ADDI at 16 bits without touching VF", func() {
		regFile.I = 0xFFFF
		regFile.WriteReg(2, 0x02)
		regFile.SetFlag(0x77)

		lsu.ADDI(2)

		Expect(regFile.I).To(Equal(uint16(0x0001)))
		Expect(regFile.Flag()).To(Equal(uint8(0x77)))
	})

	It("should point I at the glyph of the low nibble", func() {
		regFile.WriteReg(1, 0x1A)

		lsu.LDF(1)

		Expect(regFile.I).To(Equal(uint16(0xA * emu.GlyphSize)))
	})

	It("should write BCD digits and keep I", func() {
		regFile.I = 0x300
		regFile.WriteReg(0, 254)

		Expect(lsu.LDB(0)).To(Succeed())

		data, _ := memory.Read(0x300, 3)
		Expect(data).To(Equal([]byte{2, 5, 4}))
		Expect(regFile.I).To(Equal(uint16(0x300)))
	})

	It("should store V0..Vx and advance I", func() {
		regFile.I = 0x300
		for i := uint8(0); i < 4; i++ {
			regFile.WriteReg(i, i+10)
		}

		Expect(lsu.STORE(2)).To(Succeed())

		data, _ := memory.Read(0x300, 4)
		Expect(data).To(Equal([]byte{10, 11, 12, 0}))
		Expect(regFile.I).To(Equal(uint16(0x303)))
	})

	It("should load V0..Vx and advance I", func() {
		Expect(memory.Write(0x300, []byte{7, 8, 9})).To(Succeed())
		regFile.I = 0x300

		Expect(lsu.LOAD(1)).To(Succeed())

		Expect(regFile.ReadReg(0)).To(Equal(uint8(7)))
		Expect(regFile.ReadReg(1)).To(Equal(uint8(8)))
		Expect(regFile.ReadReg(2)).To(BeZero())
		Expect(regFile.I).To(Equal(uint16(0x302)))
	})

	It("should fail a store past the end without side effects", func() {
		regFile.I = emu.MemorySize - 2
		regFile.WriteReg(0, 0xAA)

		Expect(lsu.STORE(3)).To(MatchError(emu.ErrAddressOutOfRange))

		Expect(regFile.I).To(Equal(uint16(emu.MemorySize - 2)))
		Expect(memory.Read8(emu.MemorySize - 2)).To(BeZero())
	})

	It("should fail a load past the end", func() {
		regFile.I = emu.MemorySize - 1

		Expect(lsu.LOAD(1)).To(MatchError(emu.ErrAddressOutOfRange))
		Expect(regFile.I).To(Equal(uint16(emu.MemorySize - 1)))
	})
})
