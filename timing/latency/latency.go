// Package latency provides the instruction timing model used to pace
// emulation in virtual time.
//
// Costs are assigned per instruction class and can be configured via
// TimingConfig.
package latency

import (
	"github.com/sarchlab/c8sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. A nil instruction, as left by a failed fetch or decode,
// costs one cycle.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Format {
	case insts.FormatALU:
		return t.config.ALULatency

	case insts.FormatFlow, insts.FormatSkip:
		return t.config.BranchLatency

	case insts.FormatMemory:
		return t.config.MemoryLatency

	case insts.FormatDraw, insts.FormatDisplay:
		return t.config.DrawLatency

	case insts.FormatInput:
		return t.config.InputLatency

	case insts.FormatTimer:
		return t.config.TimerLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction reads or writes memory at I.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpLDB, insts.OpSTORE, insts.OpLOAD, insts.OpDRW:
		return true
	default:
		return false
	}
}

// IsBranchOp returns true if the instruction may redirect control flow.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Format == insts.FormatFlow || inst.Format == insts.FormatSkip
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
