// Package main provides accuracy validation for performance optimizations.
// Ensures that the decode cache and span-based scheduling preserve
// simulation correctness.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sarchlab/c8sim/benchmarks"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// machineState is the observable state compared between runs.
type machineState struct {
	Regs    emu.RegFile
	Timers  emu.Timers
	Memory  [emu.MemorySize]byte
	Display [emu.DisplaySize]bool
}

func captureState(e *emu.Emulator) machineState {
	return machineState{
		Regs:    *e.RegFile(),
		Timers:  *e.Timers(),
		Memory:  e.Memory().Snapshot(),
		Display: e.Display().Snapshot(),
	}
}

// testInstructionDecoding validates that every opcode decodes the same way
// twice and that cached instructions match a fresh decode.
func testInstructionDecoding() bool {
	fmt.Println("Testing instruction decoder accuracy...")

	decoder := insts.NewDecoder()
	decodeCache := cache.New(cache.DefaultConfig())
	unknown := 0

	for word := 0; word <= 0xFFFF; word++ {
		opcode := uint16(word)
		inst1, err1 := decoder.Decode(opcode)
		inst2, err2 := decoder.Decode(opcode)

		if (err1 == nil) != (err2 == nil) {
			fmt.Printf("❌ Opcode 0x%04X: inconsistent decode errors\n", opcode)
			return false
		}
		if err1 != nil {
			unknown++
			continue
		}
		if diff := cmp.Diff(inst1, inst2); diff != "" {
			fmt.Printf("❌ Opcode 0x%04X: decode mismatch (-first +second):\n%s", opcode, diff)
			return false
		}

		addr := uint16(word) & 0x0FFE
		decodeCache.Insert(addr, inst1)
		cached, ok := decodeCache.Lookup(addr)
		if !ok || !cmp.Equal(cached, inst1) {
			fmt.Printf("❌ Opcode 0x%04X: cache returned a different instruction\n", opcode)
			return false
		}
	}

	fmt.Printf("✅ 65536 opcodes decoded consistently (%d unknown)\n", unknown)
	return true
}

// testDecodeCacheExecution validates that each microbenchmark ends in the
// same state with and without the decode cache.
func testDecodeCacheExecution() bool {
	fmt.Println("\nTesting decode cache execution accuracy...")

	for _, bench := range benchmarks.GetMicrobenchmarks() {
		plain := emu.NewEmulator(emu.WithStderr(io.Discard), emu.WithMaxInstructions(5000))
		cached := emu.NewEmulator(
			emu.WithStderr(io.Discard),
			emu.WithMaxInstructions(5000),
			emu.WithDecodeCache(cache.New(cache.DefaultConfig())),
		)

		for _, e := range []*emu.Emulator{plain, cached} {
			if err := e.LoadProgram(bench.Program); err != nil {
				fmt.Printf("❌ %s: %v\n", bench.Name, err)
				return false
			}
			for e.Step().Err == nil {
			}
		}

		if diff := cmp.Diff(captureState(plain), captureState(cached)); diff != "" {
			fmt.Printf("❌ %s: state mismatch (-uncached +cached):\n%s", bench.Name, diff)
			return false
		}

		fmt.Printf("✅ %s: identical state after %d instructions\n",
			bench.Name, cached.InstructionCount())
	}

	return true
}

// testSchedulerDeterminism validates that advancing the core in one span
// or in many small spans yields the same machine state.
func testSchedulerDeterminism() bool {
	fmt.Println("\nTesting scheduler determinism...")

	spans := []time.Duration{time.Millisecond, 7 * time.Millisecond, time.Second / 60}

	for _, bench := range benchmarks.GetMicrobenchmarks() {
		reference := runSpans(bench.Program, time.Second, time.Second)

		for _, span := range spans {
			state := runSpans(bench.Program, time.Second, span)
			if diff := cmp.Diff(reference, state); diff != "" {
				fmt.Printf("❌ %s: %v spans diverge (-whole +split):\n%s", bench.Name, span, diff)
				return false
			}
		}

		fmt.Printf("✅ %s: identical state across span sizes\n", bench.Name)
	}

	return true
}

func runSpans(program []byte, total, span time.Duration) machineState {
	e := emu.NewEmulator(emu.WithStderr(io.Discard))
	_ = e.LoadProgram(program)
	c := core.NewCore(e, latency.NewTable())

	for c.Now() < total {
		_ = c.Advance(min(span, total-c.Now()))
	}

	return captureState(e)
}

func main() {
	fmt.Println("c8sim Accuracy Validation - Performance Optimization")
	fmt.Println("=======================================================")

	allPassed := true

	if !testInstructionDecoding() {
		allPassed = false
	}

	if !testDecodeCacheExecution() {
		allPassed = false
	}

	if !testSchedulerDeterminism() {
		allPassed = false
	}

	fmt.Println("\n=======================================================")
	if allPassed {
		fmt.Println("🎉 ALL ACCURACY TESTS PASSED")
		fmt.Println("✅ Performance optimizations preserve simulation correctness")
		os.Exit(0)
	} else {
		fmt.Println("❌ ACCURACY TESTS FAILED")
		fmt.Println("🚨 Performance optimizations may have introduced errors")
		os.Exit(1)
	}
}
