// Package emu provides functional CHIP-8 emulation.
package emu

// BranchUnit implements CHIP-8 control flow. All operations run after the
// fetch has already advanced PC past the current instruction.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// JP performs an absolute jump.
func (b *BranchUnit) JP(addr uint16) {
	b.regFile.PC = addr
}

// JPV0 jumps to addr + V0.
func (b *BranchUnit) JPV0(addr uint16) {
	b.regFile.PC = addr + uint16(b.regFile.ReadReg(0))
}

// CALL pushes the return address and jumps to addr.
// On overflow PC is left pointing at the next instruction.
func (b *BranchUnit) CALL(addr uint16) error {
	if err := b.regFile.Push(b.regFile.PC); err != nil {
		return err
	}
	b.regFile.PC = addr
	return nil
}

// RET pops the most recent return address into PC.
func (b *BranchUnit) RET() error {
	addr, err := b.regFile.Pop()
	if err != nil {
		return err
	}
	b.regFile.PC = addr
	return nil
}

// SkipIf skips the next instruction when cond holds.
func (b *BranchUnit) SkipIf(cond bool) {
	if cond {
		b.regFile.PC += 2
	}
}

// Rewind moves PC back to the current instruction so it executes again.
func (b *BranchUnit) Rewind() {
	b.regFile.PC -= 2
}
