// Package cache provides a decoded-instruction cache built on the Akita
// cache directory.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/c8sim/insts"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size is the number of bytes of address space the cache can cover.
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize is the number of consecutive addresses sharing one tag.
	BlockSize int
}

// DefaultConfig returns a configuration covering a quarter of the CHIP-8
// address space, which holds the hot loop of most programs.
func DefaultConfig() Config {
	return Config{
		Size:          1024, // 1KB of addresses
		Associativity: 4,    // 4-way
		BlockSize:     16,   // 8 aligned instructions per block
	}
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Lookups       uint64
	Hits          uint64
	Misses        uint64
	Evictions     uint64
	Invalidations uint64
}

// HitRate returns Hits / Lookups, or 0 before the first lookup.
func (s Statistics) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Cache maps instruction addresses to decoded instructions.
//
// Each block covers BlockSize consecutive addresses and holds one slot per
// address, since programs may place instructions at odd addresses.
type Cache struct {
	// Configuration
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Decoded instructions - indexed by (setID * associativity + wayID),
	// then by offset within the block
	dataStore [][]*insts.Instruction

	// Statistics
	stats Statistics
}

// New creates a new cache with the given configuration.
func New(config Config) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	if numSets < 1 {
		numSets = 1
	}
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]*insts.Instruction, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]*insts.Instruction, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint16) uint64 {
	return (uint64(addr) / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

func (c *Cache) lookupBlock(blockAddr uint64) *akitacache.Block {
	block := c.directory.Lookup(0, blockAddr) // PID=0, single address space
	if block == nil || !block.IsValid {
		return nil
	}
	return block
}

// Lookup returns the instruction decoded at addr, if cached.
func (c *Cache) Lookup(addr uint16) (*insts.Instruction, bool) {
	c.stats.Lookups++

	blockAddr := c.blockAddr(addr)
	block := c.lookupBlock(blockAddr)
	if block != nil {
		offset := uint64(addr) - blockAddr
		if inst := c.dataStore[c.blockIndex(block)][offset]; inst != nil {
			c.stats.Hits++
			c.directory.Visit(block) // Update LRU
			return inst, true
		}
	}

	c.stats.Misses++
	return nil, false
}

// Insert records the instruction decoded at addr, evicting the least
// recently used block of the set if needed.
func (c *Cache) Insert(addr uint16, inst *insts.Instruction) {
	blockAddr := c.blockAddr(addr)
	block := c.lookupBlock(blockAddr)

	if block == nil {
		block = c.directory.FindVictim(blockAddr)
		if block == nil {
			return
		}

		if block.IsValid {
			c.stats.Evictions++
		}
		clear(c.dataStore[c.blockIndex(block)])

		block.Tag = blockAddr
		block.IsValid = true
		block.IsDirty = false
	}

	c.dataStore[c.blockIndex(block)][uint64(addr)-blockAddr] = inst
	c.directory.Visit(block) // Update LRU
}

// Invalidate drops every cached instruction whose two bytes overlap the
// size bytes written at addr.
func (c *Cache) Invalidate(addr uint16, size int) {
	if size <= 0 {
		return
	}

	// An instruction starting one byte before addr overlaps too.
	first := int(addr) - 1
	if first < 0 {
		first = 0
	}
	last := int(addr) + size - 1

	blockSize := c.config.BlockSize
	for base := (first / blockSize) * blockSize; base <= last; base += blockSize {
		block := c.lookupBlock(uint64(base))
		if block == nil {
			continue
		}

		slots := c.dataStore[c.blockIndex(block)]
		lo := max(first-base, 0)
		hi := min(last-base, blockSize-1)
		for i := lo; i <= hi; i++ {
			if slots[i] != nil {
				slots[i] = nil
				c.stats.Invalidations++
			}
		}
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	for _, slots := range c.dataStore {
		clear(slots)
	}
	c.stats = Statistics{}
}
