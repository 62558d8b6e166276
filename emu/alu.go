// Package emu provides functional CHIP-8 emulation.
package emu

// ALU implements CHIP-8 register arithmetic and logic operations.
//
// Operations that produce a flag write the result first and VF second, so
// an instruction whose destination is VF ends up holding the flag.
type ALU struct {
	regFile *RegFile
	rng     RandomSource
}

// NewALU creates a new ALU connected to the given register file and
// entropy source.
func NewALU(regFile *RegFile, rng RandomSource) *ALU {
	return &ALU{regFile: regFile, rng: rng}
}

// LDImm loads an immediate: Vx = nn
func (a *ALU) LDImm(x, nn uint8) {
	a.regFile.WriteReg(x, nn)
}

// ADDImm adds an immediate without touching VF: Vx = Vx + nn
func (a *ALU) ADDImm(x, nn uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)+nn)
}

// LD copies a register: Vx = Vy
func (a *ALU) LD(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(y))
}

// OR performs Vx = Vx | Vy, then VF = 0.
func (a *ALU) OR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)|a.regFile.ReadReg(y))
	a.regFile.SetFlag(0)
}

// AND performs Vx = Vx & Vy, then VF = 0.
func (a *ALU) AND(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)&a.regFile.ReadReg(y))
	a.regFile.SetFlag(0)
}

// XOR performs Vx = Vx ^ Vy, then VF = 0.
func (a *ALU) XOR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)^a.regFile.ReadReg(y))
	a.regFile.SetFlag(0)
}

// ADD performs Vx = Vx + Vy with VF = carry.
func (a *ALU) ADD(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)
	sum := uint16(op1) + uint16(op2)

	a.regFile.WriteReg(x, uint8(sum))
	a.regFile.SetFlag(boolToFlag(sum > 0xFF))
}

// SUB performs Vx = Vx - Vy with VF = 1 when no borrow occurred.
func (a *ALU) SUB(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, op1-op2)
	a.regFile.SetFlag(boolToFlag(op1 >= op2))
}

// SUBN performs Vx = Vy - Vx with VF = 1 when no borrow occurred.
func (a *ALU) SUBN(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, op2-op1)
	a.regFile.SetFlag(boolToFlag(op2 >= op1))
}

// SHR copies Vy into Vx, shifts it right by one and puts the dropped bit
// in VF.
func (a *ALU) SHR(x, y uint8) {
	value := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, value>>1)
	a.regFile.SetFlag(value & 0x01)
}

// SHL copies Vy into Vx, shifts it left by one and puts the dropped bit
// in VF.
func (a *ALU) SHL(x, y uint8) {
	value := a.regFile.ReadReg(y)

	a.regFile.WriteReg(x, value<<1)
	a.regFile.SetFlag(value >> 7)
}

// RND draws one value from the entropy source: Vx = rand & nn
func (a *ALU) RND(x, nn uint8) {
	a.regFile.WriteReg(x, uint8(a.rng.Next())&nn)
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
