package main

import (
	"fmt"
	"io"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// headlessSeconds is the virtual run time of a headless run without a
// cycle limit.
const headlessSeconds = 10

// machineConfig collects the options needed to build a machine.
type machineConfig struct {
	seed        uint16
	decodeCache bool
	timing      *latency.TimingConfig
	stderr      io.Writer
}

// machine is a loaded emulator with its timing core.
type machine struct {
	core   *core.Core
	cache  *cache.Cache
	timing *latency.TimingConfig
}

func newMachine(prog *loader.Program, cfg machineConfig) (*machine, error) {
	opts := []emu.EmulatorOption{
		emu.WithSeed(cfg.seed),
		emu.WithStderr(cfg.stderr),
	}

	m := &machine{timing: cfg.timing}
	if cfg.decodeCache {
		m.cache = cache.New(cache.DefaultConfig())
		opts = append(opts, emu.WithDecodeCache(m.cache))
	}

	e := emu.NewEmulator(opts...)
	if err := prog.LoadIntoEmulator(e); err != nil {
		return nil, err
	}

	m.core = core.NewCore(e, latency.NewTableWithConfig(cfg.timing))
	return m, nil
}

// runHeadless runs the machine for maxCycles without a frontend, then
// writes the final frame to w.
func (m *machine) runHeadless(maxCycles uint64, w io.Writer) error {
	if maxCycles == 0 {
		maxCycles = headlessSeconds * m.timing.CPUFrequency
	}

	err := m.core.RunCycles(maxCycles)

	frame := m.core.Emulator().Display().Snapshot()
	if rerr := renderFrame(w, &frame); rerr != nil {
		return rerr
	}

	return err
}

// printStats writes run statistics to w.
func (m *machine) printStats(w io.Writer) {
	stats := m.core.Stats()
	_, _ = fmt.Fprintf(w, "Virtual time: %v\n", m.core.Now())
	_, _ = fmt.Fprintf(w, "Cycles: %d\n", stats.Cycles)
	_, _ = fmt.Fprintf(w, "Instructions executed: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "Timer ticks: %d\n", stats.TimerTicks)
	_, _ = fmt.Fprintf(w, "Key waits: %d\n", stats.KeyWaits)
	if stats.DecodeErrors > 0 {
		_, _ = fmt.Fprintf(w, "Decode errors: %d (last: %v)\n",
			stats.DecodeErrors, m.core.LastError())
	}

	if m.cache != nil {
		cs := m.cache.Stats()
		_, _ = fmt.Fprintf(w, "Decode cache: %d hits, %d misses, %d invalidations (%.1f%% hit rate)\n",
			cs.Hits, cs.Misses, cs.Invalidations, 100*cs.HitRate())
	}
}
