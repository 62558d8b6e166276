// Package benchmarks provides a harness that runs CHIP-8 microbenchmarks
// through the timing core and reports cycle and decode-cache statistics.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing core
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// Instructions is the number of steps executed
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// TimerTicks is the number of 60 Hz timer ticks delivered
	TimerTicks uint64 `json:"timer_ticks"`

	// Decode cache stats (if cache enabled)
	DecodeCacheHits          uint64  `json:"decode_cache_hits,omitempty"`
	DecodeCacheMisses        uint64  `json:"decode_cache_misses,omitempty"`
	DecodeCacheInvalidations uint64  `json:"decode_cache_invalidations,omitempty"`
	DecodeCacheHitRate       float64 `json:"decode_cache_hit_rate,omitempty"`

	// Completed is true if the program reached its final self-jump
	// within the cycle budget
	Completed bool `json:"completed"`

	// Error describes a halting or validation failure
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program. A program signals that
// it is done by jumping to its own address.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state after the program is loaded
	Setup func(e *emu.Emulator)

	// Program is the ROM image, loaded at emu.ProgramStart
	Program []byte

	// Validate checks the final machine state
	Validate func(e *emu.Emulator) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableDecodeCache attaches a decode cache to each emulator
	EnableDecodeCache bool

	// Cache configures the decode cache
	Cache cache.Config

	// Timing is the timing model; nil means latency.DefaultTimingConfig()
	Timing *latency.TimingConfig

	// MaxCycles bounds each benchmark run
	MaxCycles uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableDecodeCache: true,
		Cache:             cache.DefaultConfig(),
		MaxCycles:         1_000_000,
		Output:            os.Stdout,
		Verbose:           false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll runs all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)

		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d cycles\n",
				result.Name, result.SimulatedCycles)
		}
	}

	return results
}

// runBenchmark runs a single benchmark and collects statistics.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	var decodeCache *cache.Cache
	opts := []emu.EmulatorOption{emu.WithStderr(io.Discard)}
	if h.config.EnableDecodeCache {
		decodeCache = cache.New(h.config.Cache)
		opts = append(opts, emu.WithDecodeCache(decodeCache))
	}

	e := emu.NewEmulator(opts...)
	if err := e.LoadProgram(bench.Program); err != nil {
		result.Error = err.Error()
		return result
	}
	if bench.Setup != nil {
		bench.Setup(e)
	}

	c := core.NewCore(e, latency.NewTableWithConfig(h.config.Timing))

	start := time.Now()
	for c.Stats().Cycles < h.config.MaxCycles {
		if atSelfJump(e) {
			result.Completed = true
			break
		}
		if err := c.RunCycles(1); err != nil {
			result.Error = err.Error()
			break
		}
	}
	result.WallTime = time.Since(start)

	stats := c.Stats()
	result.SimulatedCycles = stats.Cycles
	result.Instructions = stats.Instructions
	result.TimerTicks = stats.TimerTicks
	if stats.Instructions > 0 {
		result.CPI = float64(stats.Cycles) / float64(stats.Instructions)
	}

	if decodeCache != nil {
		cacheStats := decodeCache.Stats()
		result.DecodeCacheHits = cacheStats.Hits
		result.DecodeCacheMisses = cacheStats.Misses
		result.DecodeCacheInvalidations = cacheStats.Invalidations
		result.DecodeCacheHitRate = cacheStats.HitRate()
	}

	if result.Completed && bench.Validate != nil {
		if err := bench.Validate(e); err != nil {
			result.Error = fmt.Sprintf("validation failed: %v", err)
		}
	}

	return result
}

// atSelfJump reports whether the instruction at PC jumps to itself.
func atSelfJump(e *emu.Emulator) bool {
	pc := e.RegFile().PC
	opcode, err := e.Memory().Read16(pc)
	return err == nil && pc <= 0x0FFF && opcode == 0x1000|pc
}

// PrintResults outputs benchmark results in human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== c8sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Completed: %v\n", r.Completed)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles: %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:     %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:              %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Timer Ticks:      %d\n", r.TimerTicks)

		if r.DecodeCacheHits > 0 || r.DecodeCacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Decode Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:          %d\n", r.DecodeCacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses:        %d\n", r.DecodeCacheMisses)
			_, _ = fmt.Fprintf(h.config.Output, "  Invalidations: %d\n", r.DecodeCacheInvalidations)
			_, _ = fmt.Fprintf(h.config.Output, "  Hit Rate:      %.1f%%\n", 100*r.DecodeCacheHitRate)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,timer_ticks,cache_hits,cache_misses,cache_invalidations,completed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.Instructions,
			r.CPI,
			r.TimerTicks,
			r.DecodeCacheHits,
			r.DecodeCacheMisses,
			r.DecodeCacheInvalidations,
			r.Completed,
		)
	}
}

// BuildProgram encodes opcodes as a big-endian ROM image.
func BuildProgram(opcodes ...uint16) []byte {
	program := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		program = append(program, byte(op>>8), byte(op))
	}
	return program
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Config describes the benchmark configuration
	Config BenchmarkConfig `json:"config"`
}

// BenchmarkConfig describes the harness configuration used.
type BenchmarkConfig struct {
	DecodeCacheEnabled bool                  `json:"decode_cache_enabled"`
	Timing             *latency.TimingConfig `json:"timing"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Completed is the number of benchmarks that finished cleanly
	Completed int `json:"completed"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions executed
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles, totalInstructions uint64
	var totalWallTime time.Duration
	completed := 0
	for _, r := range results {
		totalCycles += r.SimulatedCycles
		totalInstructions += r.Instructions
		totalWallTime += r.WallTime
		if r.Completed && r.Error == "" {
			completed++
		}
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalCycles) / float64(totalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Config: BenchmarkConfig{
				DecodeCacheEnabled: h.config.EnableDecodeCache,
				Timing:             h.config.Timing,
			},
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			Completed:         completed,
			TotalCycles:       totalCycles,
			TotalInstructions: totalInstructions,
			AverageCPI:        avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
