// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/c8sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Opcode is the raw word fetched at PC. It is zero if the fetch failed.
	Opcode uint16

	// Inst is the decoded instruction, or nil if fetch or decode failed.
	Inst *insts.Instruction

	// WaitingForKey is true if the instruction was a key wait that found no
	// key pressed and rewound PC to retry.
	WaitingForKey bool

	// Err is set if an error occurred during execution.
	Err error
}

// DecodeCache holds decoded instructions keyed by address. The emulator
// invalidates entries whenever the bytes they were decoded from change.
type DecodeCache interface {
	Lookup(addr uint16) (*insts.Instruction, bool)
	Insert(addr uint16, inst *insts.Instruction)
	Invalidate(addr uint16, size int)
	Reset()
}

// Emulator executes CHIP-8 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	display *Display
	keypad  *Keypad
	timers  *Timers
	decoder *insts.Decoder
	rng     RandomSource

	decodeCache DecodeCache

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// I/O
	stderr io.Writer

	// Key-wait latch, informational only
	latchedKey uint8
	keyLatched bool

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithRandomSource sets the entropy source used by RND.
func WithRandomSource(rng RandomSource) EmulatorOption {
	return func(e *Emulator) {
		e.rng = rng
	}
}

// WithSeed uses an LCG entropy source starting from seed.
func WithSeed(seed uint16) EmulatorOption {
	return func(e *Emulator) {
		e.rng = NewLCG(seed)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithDecodeCache makes Step look up decoded instructions in c before
// decoding.
func WithDecodeCache(c DecodeCache) EmulatorOption {
	return func(e *Emulator) {
		e.decodeCache = c
	}
}

// NewEmulator creates a new CHIP-8 emulator with the font loaded and PC at
// ProgramStart.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := NewRegFile()
	memory := NewMemory()

	e := &Emulator{
		regFile: regFile,
		memory:  memory,
		display: NewDisplay(),
		keypad:  &Keypad{},
		timers:  &Timers{},
		decoder: insts.NewDecoder(),
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.rng = NewLCG(DefaultSeed)
	}

	if e.decodeCache != nil {
		memory.SetWriteHook(e.decodeCache.Invalidate)
	}

	// Create execution units
	e.alu = NewALU(regFile, e.rng)
	e.lsu = NewLoadStoreUnit(regFile, memory)
	e.branchUnit = NewBranchUnit(regFile)

	e.LoadFont()

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Display returns the emulator's framebuffer.
func (e *Emulator) Display() *Display {
	return e.display
}

// Keypad returns the emulator's keypad.
func (e *Emulator) Keypad() *Keypad {
	return e.keypad
}

// Timers returns the emulator's delay and sound timers.
func (e *Emulator) Timers() *Timers {
	return e.timers
}

// InstructionCount returns the number of instructions fetched since
// construction or the last Reset.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// KeyWaitLatch returns the key most recently captured by a key-wait
// instruction, if any.
func (e *Emulator) KeyWaitLatch() (uint8, bool) {
	return e.latchedKey, e.keyLatched
}

// SoundActive reports whether the beeper should be on.
func (e *Emulator) SoundActive() bool {
	return e.timers.SoundActive()
}

// LoadFont copies the built-in glyph set to the start of memory.
func (e *Emulator) LoadFont() {
	e.memory.LoadFont()
}

// LoadProgram copies a ROM image to ProgramStart. PC is not changed.
func (e *Emulator) LoadProgram(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit %d",
			ErrProgramTooLarge, len(rom), MaxProgramSize)
	}
	return e.memory.Write(ProgramStart, rom)
}

// TickTimer decrements the delay and sound timers once.
func (e *Emulator) TickTimer() {
	e.timers.Tick()
}

// SetKey records a keypad press or release. Keys above 0xF are ignored.
func (e *Emulator) SetKey(key uint8, pressed bool) {
	e.keypad.Set(key, pressed)
}

// Reset returns the machine to its power-on state: memory is cleared and
// the font reloaded, but no program is. The entropy source keeps its
// position.
func (e *Emulator) Reset() {
	*e.regFile = *NewRegFile()
	e.memory.Clear()
	e.display.Reset()
	e.keypad.Reset()
	*e.timers = Timers{}
	e.latchedKey, e.keyLatched = 0, false
	e.instructionCount = 0

	if e.decodeCache != nil {
		e.decodeCache.Reset()
	}

	e.LoadFont()
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// 1. Fetch: read a big-endian word at PC and advance past it
	pc := e.regFile.PC
	opcode, err := e.memory.Read16(pc)
	if err != nil {
		return StepResult{Err: fmt.Errorf("fetch at PC=0x%03X: %w", pc, err)}
	}
	e.regFile.PC += 2
	e.instructionCount++

	// 2. Decode
	inst, err := e.decode(pc, opcode)
	if err != nil {
		return StepResult{
			Opcode: opcode,
			Err:    fmt.Errorf("decode at PC=0x%03X: %w", pc, err),
		}
	}

	// 3. Execute
	result := e.execute(inst)
	result.Opcode = opcode
	result.Inst = inst
	if result.Err != nil {
		result.Err = fmt.Errorf("%s at PC=0x%03X: %w", inst.Op, pc, result.Err)
	}

	return result
}

// Run executes instructions until an error occurs or the instruction limit
// is reached.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return result.Err
		}
	}
}

func (e *Emulator) decode(addr, opcode uint16) (*insts.Instruction, error) {
	if e.decodeCache != nil {
		if inst, ok := e.decodeCache.Lookup(addr); ok {
			return inst, nil
		}
	}

	inst, err := e.decoder.Decode(opcode)
	if err != nil {
		return nil, err
	}

	if e.decodeCache != nil {
		e.decodeCache.Insert(addr, inst)
	}

	return inst, nil
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Format {
	case insts.FormatDisplay:
		e.display.Clear()
	case insts.FormatFlow:
		return StepResult{Err: e.executeFlow(inst)}
	case insts.FormatSkip:
		e.executeSkip(inst)
	case insts.FormatALU:
		e.executeALU(inst)
	case insts.FormatDraw:
		return StepResult{Err: e.executeDraw(inst)}
	case insts.FormatInput:
		return e.executeInput(inst)
	case insts.FormatTimer:
		e.executeTimer(inst)
	case insts.FormatMemory:
		return StepResult{Err: e.executeMemory(inst)}
	default:
		return StepResult{
			Err: fmt.Errorf("unimplemented format %d", inst.Format),
		}
	}

	return StepResult{}
}

func (e *Emulator) executeFlow(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpJP:
		e.branchUnit.JP(inst.NNN)
	case insts.OpJPV0:
		e.branchUnit.JPV0(inst.NNN)
	case insts.OpCALL:
		return e.branchUnit.CALL(inst.NNN)
	case insts.OpRET:
		return e.branchUnit.RET()
	}
	return nil
}

func (e *Emulator) executeSkip(inst *insts.Instruction) {
	vx := e.regFile.ReadReg(inst.X)
	vy := e.regFile.ReadReg(inst.Y)

	switch inst.Op {
	case insts.OpSEImm:
		e.branchUnit.SkipIf(vx == inst.NN)
	case insts.OpSNEImm:
		e.branchUnit.SkipIf(vx != inst.NN)
	case insts.OpSEReg:
		e.branchUnit.SkipIf(vx == vy)
	case insts.OpSNEReg:
		e.branchUnit.SkipIf(vx != vy)
	}
}

func (e *Emulator) executeALU(inst *insts.Instruction) {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case insts.OpLDImm:
		e.alu.LDImm(x, inst.NN)
	case insts.OpADDImm:
		e.alu.ADDImm(x, inst.NN)
	case insts.OpLDReg:
		e.alu.LD(x, y)
	case insts.OpOR:
		e.alu.OR(x, y)
	case insts.OpAND:
		e.alu.AND(x, y)
	case insts.OpXOR:
		e.alu.XOR(x, y)
	case insts.OpADD:
		e.alu.ADD(x, y)
	case insts.OpSUB:
		e.alu.SUB(x, y)
	case insts.OpSUBN:
		e.alu.SUBN(x, y)
	case insts.OpSHR:
		e.alu.SHR(x, y)
	case insts.OpSHL:
		e.alu.SHL(x, y)
	case insts.OpRND:
		e.alu.RND(x, inst.NN)
	}
}

// executeDraw XORs an N-row sprite from I onto the display at (Vx, Vy).
// Only rows that land on screen are read from memory.
func (e *Emulator) executeDraw(inst *insts.Instruction) error {
	x := e.regFile.ReadReg(inst.X)
	y := e.regFile.ReadReg(inst.Y)

	sprite, err := e.lsu.Sprite(VisibleRows(y, inst.N))
	if err != nil {
		return err
	}

	collision := e.display.DrawSprite(x, y, sprite)
	e.regFile.SetFlag(boolToFlag(collision))

	return nil
}

func (e *Emulator) executeInput(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpSKP:
		e.branchUnit.SkipIf(e.keypad.Pressed(e.regFile.ReadReg(inst.X)))
	case insts.OpSKNP:
		e.branchUnit.SkipIf(!e.keypad.Pressed(e.regFile.ReadReg(inst.X)))
	case insts.OpLDVxK:
		key, ok := e.keypad.FirstPressed()
		if !ok {
			e.branchUnit.Rewind()
			return StepResult{WaitingForKey: true}
		}
		e.regFile.WriteReg(inst.X, key)
		e.latchedKey, e.keyLatched = key, true
	}
	return StepResult{}
}

func (e *Emulator) executeTimer(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLDVxDT:
		e.regFile.WriteReg(inst.X, e.timers.Delay)
	case insts.OpLDDTVx:
		e.timers.Delay = e.regFile.ReadReg(inst.X)
	case insts.OpLDSTVx:
		e.timers.Sound = e.regFile.ReadReg(inst.X)
	}
}

func (e *Emulator) executeMemory(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpLDI:
		e.lsu.LDI(inst.NNN)
	case insts.OpADDI:
		e.lsu.ADDI(inst.X)
	case insts.OpLDF:
		e.lsu.LDF(inst.X)
	case insts.OpLDB:
		return e.lsu.LDB(inst.X)
	case insts.OpSTORE:
		return e.lsu.STORE(inst.X)
	case insts.OpLOAD:
		return e.lsu.LOAD(inst.X)
	}
	return nil
}
