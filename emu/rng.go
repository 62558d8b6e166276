// Package emu provides functional CHIP-8 emulation.
package emu

// DefaultSeed is the initial state of the entropy source when no seed is given.
const DefaultSeed uint16 = 888

// LCG parameters: seed = (lcgA*seed + lcgC) mod 2^16.
const (
	lcgA uint16 = 75
	lcgC uint16 = 74
)

// RandomSource produces the 16-bit values consumed by the RND instruction.
type RandomSource interface {
	Next() uint16
}

// LCG is a linear congruential generator over 16-bit state.
// The same seed always yields the same sequence.
type LCG struct {
	seed uint16
}

// NewLCG creates a generator starting from the given seed.
func NewLCG(seed uint16) *LCG {
	return &LCG{seed: seed}
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint16 {
	// uint16 arithmetic wraps, which is the mod 65536.
	g.seed = lcgA*g.seed + lcgC
	return g.seed
}

// Seed returns the current state without advancing it.
func (g *LCG) Seed() uint16 {
	return g.seed
}
