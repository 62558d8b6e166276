// Validate decode cache effectiveness - measures allocations and throughput
// of fresh decodes against cached lookups.
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
)

// program is a short loop body: ADD, SE, DRW, JP.
var program = []struct {
	addr   uint16
	opcode uint16
}{
	{0x200, 0x7001}, // ADD V0, 1
	{0x202, 0x3010}, // SE V0, 0x10
	{0x204, 0xD125}, // DRW V1, V2, 5
	{0x206, 0x1200}, // JP 0x200
}

const iterations = 100000

type result struct {
	elapsed     time.Duration
	allocations uint64
	bytes       uint64
}

func measure(fn func()) result {
	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	fn()
	elapsed := time.Since(start)

	runtime.ReadMemStats(&m2)
	return result{
		elapsed:     elapsed,
		allocations: m2.Mallocs - m1.Mallocs,
		bytes:       m2.TotalAlloc - m1.TotalAlloc,
	}
}

func report(name string, r result, decodes int) {
	fmt.Printf("%s:\n", name)
	fmt.Printf("  Time elapsed: %v\n", r.elapsed)
	fmt.Printf("  Decodes per second: %.0f\n", float64(decodes)/r.elapsed.Seconds())
	fmt.Printf("  Allocations per decode: %.3f\n", float64(r.allocations)/float64(decodes))
	fmt.Printf("  Bytes per decode: %.1f\n", float64(r.bytes)/float64(decodes))
}

func main() {
	decoder := insts.NewDecoder()
	decodeCache := cache.New(cache.DefaultConfig())
	totalDecodes := iterations * len(program)

	fresh := measure(func() {
		for i := 0; i < iterations; i++ {
			for _, p := range program {
				_, _ = decoder.Decode(p.opcode)
			}
		}
	})

	cached := measure(func() {
		for i := 0; i < iterations; i++ {
			for _, p := range program {
				if _, ok := decodeCache.Lookup(p.addr); ok {
					continue
				}
				inst, err := decoder.Decode(p.opcode)
				if err == nil {
					decodeCache.Insert(p.addr, inst)
				}
			}
		}
	})

	fmt.Printf("Decode Cache Validation Results:\n")
	fmt.Printf("================================\n")
	fmt.Printf("Total decode operations: %d\n\n", totalDecodes)
	report("Fresh decode", fresh, totalDecodes)
	report("Cached decode", cached, totalDecodes)

	stats := decodeCache.Stats()
	fmt.Printf("\nCache hit rate: %.2f%%\n", 100*stats.HitRate())

	if cached.allocations == 0 {
		fmt.Printf("\n✅ SUCCESS: Zero allocations on the cached path.\n")
	} else if float64(cached.allocations)/float64(totalDecodes) < 0.1 {
		fmt.Printf("\n✅ GOOD: Low allocation rate (< 0.1 per decode)\n")
	} else {
		fmt.Printf("\n⚠️  WARNING: High allocation rate detected\n")
	}
}
