// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package implements decoding of 16-bit CHIP-8 opcodes into structured
// instruction representations. It supports the 34 instructions of the
// standard CHIP-8 interpreter:
//   - Display: CLS, DRW
//   - Flow control: JP, JP V0, CALL, RET and the conditional skips
//   - Register arithmetic and logic: LD, ADD, OR, AND, XOR, SUB, SUBN, SHR, SHL
//   - Index register, memory, timers, keypad and random number instructions
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x6AFF) // LD VA, 0xFF
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Op: %v, X: %d, NN: %d\n", inst.Op, inst.X, inst.NN)
package insts
