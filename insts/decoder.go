// Package insts provides CHIP-8 instruction definitions and decoding.
package insts

import "fmt"

// Op represents a CHIP-8 operation.
type Op uint8

// CHIP-8 operations. Names follow the opcode pattern they decode from.
const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEImm      // 3XNN
	OpSNEImm     // 4XNN
	OpSEReg      // 5XY0
	OpLDImm      // 6XNN
	OpADDImm     // 7XNN
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADD        // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpSTORE      // FX55
	OpLOAD       // FX65
)

var opNames = [...]string{
	OpUnknown: "UNKNOWN",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE_IMM",
	OpSNEImm:  "SNE_IMM",
	OpSEReg:   "SE_REG",
	OpLDImm:   "LD_IMM",
	OpADDImm:  "ADD_IMM",
	OpLDReg:   "LD_REG",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE_REG",
	OpLDI:     "LD_I",
	OpJPV0:    "JP_V0",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD_VX_DT",
	OpLDVxK:   "LD_VX_K",
	OpLDDTVx:  "LD_DT_VX",
	OpLDSTVx:  "LD_ST_VX",
	OpADDI:    "ADD_I",
	OpLDF:     "LD_F",
	OpLDB:     "LD_B",
	OpSTORE:   "STORE",
	OpLOAD:    "LOAD",
}

// String returns the name of the operation.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Format represents the functional class of an instruction.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatDisplay        // CLS
	FormatFlow           // JP, CALL, RET, JP V0
	FormatSkip           // SE, SNE
	FormatALU            // register and immediate arithmetic/logic, RND
	FormatDraw           // DRW
	FormatInput          // SKP, SKNP, LD Vx, K
	FormatTimer          // LD Vx, DT / LD DT, Vx / LD ST, Vx
	FormatMemory         // LD I, ADD I, LD F, LD B, STORE, LOAD
)

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Functional class

	// Opcode is the raw 16-bit word the instruction was decoded from.
	Opcode uint16

	X   uint8  // Register index from the second nibble
	Y   uint8  // Register index from the third nibble
	N   uint8  // 4-bit immediate (sprite height)
	NN  uint8  // 8-bit immediate
	NNN uint16 // 12-bit address
}

// UnknownOpcodeError is returned when an opcode matches no instruction pattern.
type UnknownOpcodeError struct {
	Opcode uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("UnknownOpcode(%04x)", e.Opcode)
}

// Decoder decodes CHIP-8 opcodes into instructions.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit big-endian CHIP-8 opcode.
// Opcodes that match no pattern return an *UnknownOpcodeError.
func (d *Decoder) Decode(opcode uint16) (*Instruction, error) {
	n1, n2, n3, n4 := nibbles(opcode)

	inst := &Instruction{
		Opcode: opcode,
		X:      n2,
		Y:      n3,
		N:      n4,
		NN:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}

	switch n1 {
	case 0x0:
		d.decodeSystem(opcode, inst)
	case 0x1:
		inst.Op, inst.Format = OpJP, FormatFlow
	case 0x2:
		inst.Op, inst.Format = OpCALL, FormatFlow
	case 0x3:
		inst.Op, inst.Format = OpSEImm, FormatSkip
	case 0x4:
		inst.Op, inst.Format = OpSNEImm, FormatSkip
	case 0x5:
		if n4 == 0x0 {
			inst.Op, inst.Format = OpSEReg, FormatSkip
		}
	case 0x6:
		inst.Op, inst.Format = OpLDImm, FormatALU
	case 0x7:
		inst.Op, inst.Format = OpADDImm, FormatALU
	case 0x8:
		d.decodeALU(n4, inst)
	case 0x9:
		if n4 == 0x0 {
			inst.Op, inst.Format = OpSNEReg, FormatSkip
		}
	case 0xA:
		inst.Op, inst.Format = OpLDI, FormatMemory
	case 0xB:
		inst.Op, inst.Format = OpJPV0, FormatFlow
	case 0xC:
		inst.Op, inst.Format = OpRND, FormatALU
	case 0xD:
		inst.Op, inst.Format = OpDRW, FormatDraw
	case 0xE:
		d.decodeKeySkip(opcode, inst)
	case 0xF:
		d.decodeMisc(opcode, inst)
	}

	if inst.Op == OpUnknown {
		return nil, &UnknownOpcodeError{Opcode: opcode}
	}

	return inst, nil
}

// nibbles splits an opcode into its four 4-bit parts, highest first.
func nibbles(opcode uint16) (uint8, uint8, uint8, uint8) {
	return uint8((opcode & 0xF000) >> 12),
		uint8((opcode & 0x0F00) >> 8),
		uint8((opcode & 0x00F0) >> 4),
		uint8(opcode & 0x000F)
}

// decodeSystem decodes the 0x0 group. Only 00E0 and 00EE are defined;
// the 0NNN machine-code call is not supported.
func (d *Decoder) decodeSystem(opcode uint16, inst *Instruction) {
	switch opcode {
	case 0x00E0:
		inst.Op, inst.Format = OpCLS, FormatDisplay
	case 0x00EE:
		inst.Op, inst.Format = OpRET, FormatFlow
	}
}

// decodeALU decodes the 8XYn register-register group by its low nibble.
func (d *Decoder) decodeALU(n4 uint8, inst *Instruction) {
	switch n4 {
	case 0x0:
		inst.Op = OpLDReg
	case 0x1:
		inst.Op = OpOR
	case 0x2:
		inst.Op = OpAND
	case 0x3:
		inst.Op = OpXOR
	case 0x4:
		inst.Op = OpADD
	case 0x5:
		inst.Op = OpSUB
	case 0x6:
		inst.Op = OpSHR
	case 0x7:
		inst.Op = OpSUBN
	case 0xE:
		inst.Op = OpSHL
	default:
		return
	}
	inst.Format = FormatALU
}

// decodeKeySkip decodes EX9E and EXA1.
func (d *Decoder) decodeKeySkip(opcode uint16, inst *Instruction) {
	switch opcode & 0x00FF {
	case 0x9E:
		inst.Op, inst.Format = OpSKP, FormatInput
	case 0xA1:
		inst.Op, inst.Format = OpSKNP, FormatInput
	}
}

// decodeMisc decodes the FXnn group by its low byte.
func (d *Decoder) decodeMisc(opcode uint16, inst *Instruction) {
	switch opcode & 0x00FF {
	case 0x07:
		inst.Op, inst.Format = OpLDVxDT, FormatTimer
	case 0x0A:
		inst.Op, inst.Format = OpLDVxK, FormatInput
	case 0x15:
		inst.Op, inst.Format = OpLDDTVx, FormatTimer
	case 0x18:
		inst.Op, inst.Format = OpLDSTVx, FormatTimer
	case 0x1E:
		inst.Op, inst.Format = OpADDI, FormatMemory
	case 0x29:
		inst.Op, inst.Format = OpLDF, FormatMemory
	case 0x33:
		inst.Op, inst.Format = OpLDB, FormatMemory
	case 0x55:
		inst.Op, inst.Format = OpSTORE, FormatMemory
	case 0x65:
		inst.Op, inst.Format = OpLOAD, FormatMemory
	}
}
