// Package emu provides functional CHIP-8 emulation.
package emu

// Register file dimensions.
const (
	// NumRegisters is the number of general-purpose V registers.
	NumRegisters = 16

	// FlagRegister is the index of VF, which carry, borrow, shift and
	// collision results are written to.
	FlagRegister = 0xF

	// StackSize is the maximum call depth.
	StackSize = 16
)

// RegFile represents the CHIP-8 register file.
// It contains the 16 V registers, the index register I, the program
// counter and the return-address stack.
type RegFile struct {
	// V holds general-purpose registers V0-VF.
	V [NumRegisters]uint8

	// I is the index register used to address memory.
	I uint16

	// PC is the program counter.
	PC uint16

	// Stack holds return addresses; SP is the number of valid entries.
	Stack [StackSize]uint16
	SP    uint8
}

// NewRegFile returns a register file with PC at the program entry point.
func NewRegFile() *RegFile {
	return &RegFile{PC: ProgramStart}
}

// ReadReg reads a V register. Only the low nibble of reg is used.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	return r.V[reg&0xF]
}

// WriteReg writes a V register. Only the low nibble of reg is used.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	r.V[reg&0xF] = value
}

// SetFlag writes VF.
func (r *RegFile) SetFlag(value uint8) {
	r.V[FlagRegister] = value
}

// Flag reads VF.
func (r *RegFile) Flag() uint8 {
	return r.V[FlagRegister]
}

// Push stores a return address on the stack.
// It fails with ErrStackOverflow when the stack is full and leaves the
// stack untouched.
func (r *RegFile) Push(addr uint16) error {
	if int(r.SP) >= StackSize {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

// Pop removes and returns the most recent return address.
func (r *RegFile) Pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

// StackDepth returns the number of return addresses on the stack.
func (r *RegFile) StackDepth() int {
	return int(r.SP)
}
