package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the clock rates of the machine and the cycle cost of
// each instruction class.
type TimingConfig struct {
	// CPUFrequency is the number of cycles per second.
	// Default: 700 Hz, a common pace for CHIP-8 programs.
	CPUFrequency uint64 `json:"cpu_frequency"`

	// TimerFrequency is the number of delay/sound timer ticks per second.
	// Default: 60 Hz.
	TimerFrequency uint64 `json:"timer_frequency"`

	// ALULatency is the cost of register arithmetic, logic and RND.
	// Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency is the cost of jumps, calls, returns and skips.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// MemoryLatency is the cost of index register and load/store
	// instructions. Default: 1 cycle.
	MemoryLatency uint64 `json:"memory_latency"`

	// DrawLatency is the cost of DRW and CLS.
	// Default: 1 cycle.
	DrawLatency uint64 `json:"draw_latency"`

	// InputLatency is the cost of key skips and of each key-wait retry.
	// Default: 1 cycle.
	InputLatency uint64 `json:"input_latency"`

	// TimerLatency is the cost of reading or setting a timer.
	// Default: 1 cycle.
	TimerLatency uint64 `json:"timer_latency"`
}

// DefaultTimingConfig returns a TimingConfig where every instruction takes
// one cycle at 700 Hz.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		CPUFrequency:   700,
		TimerFrequency: 60,
		ALULatency:     1,
		BranchLatency:  1,
		MemoryLatency:  1,
		DrawLatency:    1,
		InputLatency:   1,
		TimerLatency:   1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all frequencies and latencies are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.CPUFrequency == 0 {
		return fmt.Errorf("cpu_frequency must be > 0")
	}
	if c.TimerFrequency == 0 {
		return fmt.Errorf("timer_frequency must be > 0")
	}
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.DrawLatency == 0 {
		return fmt.Errorf("draw_latency must be > 0")
	}
	if c.InputLatency == 0 {
		return fmt.Errorf("input_latency must be > 0")
	}
	if c.TimerLatency == 0 {
		return fmt.Errorf("timer_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
