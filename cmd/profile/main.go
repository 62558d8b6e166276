// Package main provides a profiling wrapper for c8sim to identify performance bottlenecks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

var (
	timing      = flag.Bool("timing", false, "Run through the timing core")
	noCache     = flag.Bool("nocache", false, "Disable the decode cache")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions to execute (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <rom>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s (%d bytes)\n", prog.Name, prog.Size())

	e, decodeCache := newEmulator()
	if err := prog.LoadIntoEmulator(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	if *timing {
		err = runTimingProfile(e)
	} else {
		err = e.Run()
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, ferr := os.Create(*memProfile)
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", ferr)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if werr := pprof.WriteHeapProfile(f); werr != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", werr)
		}
	}

	instrCount := e.InstructionCount()

	fmt.Printf("\nProfiling Results:\n")
	if err != nil && !errors.Is(err, emu.ErrMaxInstructions) {
		fmt.Printf("Stopped on: %v\n", err)
	}
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
	if decodeCache != nil {
		fmt.Printf("Decode cache hit rate: %.1f%%\n", 100*decodeCache.Stats().HitRate())
	}
}

// newEmulator creates an emulator configured from the command-line flags.
func newEmulator() (*emu.Emulator, *cache.Cache) {
	opts := []emu.EmulatorOption{emu.WithStderr(io.Discard)}

	if *instruction > 0 {
		opts = append(opts, emu.WithMaxInstructions(*instruction))
	}

	var decodeCache *cache.Cache
	if !*noCache {
		decodeCache = cache.New(cache.DefaultConfig())
		opts = append(opts, emu.WithDecodeCache(decodeCache))
	}

	return emu.NewEmulator(opts...), decodeCache
}

// runTimingProfile runs the emulator through the timing core until it halts.
func runTimingProfile(e *emu.Emulator) error {
	c := core.NewCore(e, latency.NewTable())

	err := c.RunCycles(math.MaxUint64)

	stats := c.Stats()
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("Timer ticks: %d\n", stats.TimerTicks)

	return err
}
