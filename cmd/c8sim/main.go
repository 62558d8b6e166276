// Package main provides the entry point for c8sim.
// c8sim is a CHIP-8 virtual machine with a deterministic timing core.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/latency"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

var (
	configPath   = flag.String("config", "", "Path to timing configuration JSON file")
	seed         = flag.Uint("seed", uint(emu.DefaultSeed), "Seed for the random number source")
	frontendName = flag.String("frontend", "terminal", "Frontend to use: terminal or sdl")
	headless     = flag.Bool("headless", false, "Run without a frontend and print the final frame")
	cycles       = flag.Uint64("cycles", 0, "Stop after this many cycles (0 = no limit)")
	noCache      = flag.Bool("nocache", false, "Disable the decode cache")
	verbose      = flag.Bool("v", false, "Verbose output")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("c8sim version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8sim [options] <rom>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *seed > 0xFFFF {
		fmt.Fprintf(os.Stderr, "Invalid seed %d: must fit in 16 bits\n", *seed)
		os.Exit(1)
	}

	timingConfig := latency.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := timingConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
		os.Exit(1)
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d bytes)\n", prog.Name, prog.Size())
	}

	m, err := newMachine(prog, machineConfig{
		seed:        uint16(*seed),
		decodeCache: !*noCache,
		timing:      timingConfig,
		stderr:      os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *headless {
		err = m.runHeadless(*cycles, os.Stdout)
	} else {
		err = runInteractive(m)
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", prog.Name)
		m.printStats(os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Emulation error: %v\n", err)
		os.Exit(1)
	}
}

// runInteractive paces the machine in real time against the selected
// frontend.
func runInteractive(m *machine) error {
	var f Frontend
	var err error
	switch *frontendName {
	case "terminal":
		f, err = newTerminalFrontend()
	case "sdl":
		f, err = newSDLFrontend()
	default:
		err = fmt.Errorf("unknown frontend %q", *frontendName)
	}
	if err != nil {
		return err
	}

	if err := f.Init(); err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	h := &host{core: m.core, frontend: f, maxCycles: *cycles}
	return h.run(ticker.C)
}
