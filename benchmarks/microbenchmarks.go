package benchmarks

import (
	"fmt"

	"github.com/sarchlab/c8sim/emu"
)

// GetMicrobenchmarks returns the standard set of CHIP-8 microbenchmarks.
// Each program ends by jumping to its own address.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		callReturn(),
		storeLoad(),
		bcdDigits(),
		spriteDraw(),
		selfModifying(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		callReturn(),
		spriteDraw(),
	}
}

// 1. Arithmetic Loop - counts V0 up to 100 with a decrementing V1
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "100 iterations of ADD and skip - measures ALU and skip cost",
		Program: BuildProgram(
			0x6000, // 0x200: V0 = 0
			0x6164, // 0x202: V1 = 100
			0x7001, // 0x204: V0 += 1
			0x71FF, // 0x206: V1 -= 1
			0x3100, // 0x208: skip if V1 == 0
			0x1204, // 0x20A: JP 0x204
			0x120C, // 0x20C: halt
		),
		Validate: expectReg(0, 100),
	}
}

// 2. Call/Return - 50 subroutine calls
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "50 CALL/RET pairs - measures stack overhead",
		Program: BuildProgram(
			0x6032, // 0x200: V0 = 50
			0x2210, // 0x202: CALL 0x210
			0x70FF, // 0x204: V0 -= 1
			0x3000, // 0x206: skip if V0 == 0
			0x1202, // 0x208: JP 0x202
			0x120A, // 0x20A: halt
			0x0000, // 0x20C: padding
			0x0000, // 0x20E: padding
			0x7101, // 0x210: V1 += 1
			0x00EE, // 0x212: RET
		),
		Validate: expectReg(1, 50),
	}
}

// 3. Store/Load - 20 register block round trips through memory
func storeLoad() Benchmark {
	return Benchmark{
		Name:        "store_load",
		Description: "20 STORE/LOAD round trips of V0-V3 - measures memory ops",
		Program: BuildProgram(
			0x6E14, // 0x200: VE = 20
			0xA300, // 0x202: I = 0x300
			0xF355, // 0x204: store V0..V3
			0xA300, // 0x206: I = 0x300
			0xF365, // 0x208: load V0..V3
			0x7001, // 0x20A: V0 += 1
			0x7EFF, // 0x20C: VE -= 1
			0x3E00, // 0x20E: skip if VE == 0
			0x1202, // 0x210: JP 0x202
			0x1212, // 0x212: halt
		),
		Validate: func(e *emu.Emulator) error {
			if err := expectReg(0, 20)(e); err != nil {
				return err
			}
			if got := e.Memory().Read8(0x300); got != 19 {
				return fmt.Errorf("mem[0x300] = %d, want 19", got)
			}
			return nil
		},
	}
}

// 4. BCD Digits - converts 0..199 to decimal digits
func bcdDigits() Benchmark {
	return Benchmark{
		Name:        "bcd_digits",
		Description: "200 BCD conversions - measures FX33 throughput",
		Program: BuildProgram(
			0x6000, // 0x200: V0 = 0
			0xA300, // 0x202: I = 0x300
			0xF033, // 0x204: BCD V0
			0x7001, // 0x206: V0 += 1
			0x30C8, // 0x208: skip if V0 == 200
			0x1204, // 0x20A: JP 0x204
			0x120C, // 0x20C: halt
		),
		Validate: func(e *emu.Emulator) error {
			got, err := e.Memory().Read(0x300, 3)
			if err != nil {
				return err
			}
			if got[0] != 1 || got[1] != 9 || got[2] != 9 {
				return fmt.Errorf("digits = %v, want [1 9 9]", got)
			}
			return nil
		},
	}
}

// 5. Sprite Draw - draws all 16 font glyphs four times, clearing between passes
func spriteDraw() Benchmark {
	return Benchmark{
		Name:        "sprite_draw",
		Description: "4 passes drawing 16 glyphs - measures DRW and CLS cost",
		Program: BuildProgram(
			0x6A04, // 0x200: VA = 4
			0x6000, // 0x202: V0 = 0
			0x6100, // 0x204: V1 = 0
			0xF029, // 0x206: I = glyph V0
			0xD125, // 0x208: DRW V1, V2, 5
			0x7001, // 0x20A: V0 += 1
			0x7104, // 0x20C: V1 += 4
			0x3010, // 0x20E: skip if V0 == 16
			0x1206, // 0x210: JP 0x206
			0x7AFF, // 0x212: VA -= 1
			0x3A00, // 0x214: skip if VA == 0
			0x121C, // 0x216: JP 0x21C
			0x1218, // 0x218: halt
			0x0000, // 0x21A: padding
			0x00E0, // 0x21C: CLS
			0x1202, // 0x21E: JP 0x202
		),
		Validate: func(e *emu.Emulator) error {
			if !e.Display().Pixel(0, 0) {
				return fmt.Errorf("pixel (0,0) not lit")
			}
			if e.RegFile().Flag() != 0 {
				return fmt.Errorf("VF = %d, want 0", e.RegFile().Flag())
			}
			return nil
		},
	}
}

// 6. Self-Modifying - rewrites its own ADD immediate each iteration
func selfModifying() Benchmark {
	return Benchmark{
		Name:        "self_modifying",
		Description: "10 in-place instruction rewrites - measures decode cache invalidation",
		Program: BuildProgram(
			0x6E0A, // 0x200: VE = 10
			0x6072, // 0x202: V0 = 0x72
			0x6100, // 0x204: V1 = 0
			0x7101, // 0x206: V1 += 1
			0xA20E, // 0x208: I = 0x20E
			0xF155, // 0x20A: store V0..V1 over 0x20E
			0x6300, // 0x20C: V3 = 0
			0x7200, // 0x20E: V2 += NN (rewritten)
			0x7EFF, // 0x210: VE -= 1
			0x3E00, // 0x212: skip if VE == 0
			0x1206, // 0x214: JP 0x206
			0x1216, // 0x216: halt
		),
		Validate: expectReg(2, 55),
	}
}

func expectReg(reg, want uint8) func(e *emu.Emulator) error {
	return func(e *emu.Emulator) error {
		if got := e.RegFile().ReadReg(reg); got != want {
			return fmt.Errorf("V%X = %d, want %d", reg, got, want)
		}
		return nil
	}
}
