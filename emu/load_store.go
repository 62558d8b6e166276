// Package emu provides functional CHIP-8 emulation.
package emu

// LoadStoreUnit implements the index register and the instructions that
// move data between registers and memory through it.
//
// Memory ranges are checked before anything is written, so a failing
// instruction leaves registers and memory as they were.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LDI sets I = addr.
func (lsu *LoadStoreUnit) LDI(addr uint16) {
	lsu.regFile.I = addr
}

// ADDI performs I = I + Vx, wrapping at 16 bits. VF is not affected.
func (lsu *LoadStoreUnit) ADDI(x uint8) {
	lsu.regFile.I += uint16(lsu.regFile.ReadReg(x))
}

// LDF points I at the font glyph for the low nibble of Vx.
func (lsu *LoadStoreUnit) LDF(x uint8) {
	digit := uint16(lsu.regFile.ReadReg(x) & 0xF)
	lsu.regFile.I = FontStart + digit*GlyphSize
}

// LDB stores the decimal digits of Vx at I, I+1 and I+2. I is unchanged.
func (lsu *LoadStoreUnit) LDB(x uint8) error {
	v := lsu.regFile.ReadReg(x)
	bcd := []byte{v / 100, (v / 10) % 10, v % 10}
	return lsu.memory.Write(lsu.regFile.I, bcd)
}

// STORE writes V0..Vx to memory at I, then advances I by x+1.
func (lsu *LoadStoreUnit) STORE(x uint8) error {
	n := int(x&0xF) + 1
	if err := lsu.memory.Write(lsu.regFile.I, lsu.regFile.V[:n]); err != nil {
		return err
	}
	lsu.regFile.I += uint16(n)
	return nil
}

// LOAD reads V0..Vx from memory at I, then advances I by x+1.
func (lsu *LoadStoreUnit) LOAD(x uint8) error {
	n := int(x&0xF) + 1
	data, err := lsu.memory.Read(lsu.regFile.I, n)
	if err != nil {
		return err
	}
	copy(lsu.regFile.V[:n], data)
	lsu.regFile.I += uint16(n)
	return nil
}

// Sprite returns the n bytes of sprite data at I.
func (lsu *LoadStoreUnit) Sprite(n uint8) ([]byte, error) {
	return lsu.memory.Read(lsu.regFile.I, int(n))
}
