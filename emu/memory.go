// Package emu provides functional CHIP-8 emulation.
package emu

// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Built-in font, 16 glyphs of 5 bytes
//	0x050-0x1FF: Unused, zero
//	0x200-0xFFF: Program and data
const (
	// MemorySize is the size of the address space in bytes.
	MemorySize = 4096

	// ProgramStart is where ROM images are loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest ROM image that fits after ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// FontStart is the address of glyph 0.
	FontStart = 0x000

	// GlyphSize is the number of bytes (rows) per font glyph.
	GlyphSize = 5
)

// Font is the built-in hexadecimal glyph set. Each row uses the high
// four bits of its byte.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// WriteHook is called after every memory write with the first address
// written and the number of bytes.
type WriteHook func(addr uint16, size int)

// Memory is the 4KB CHIP-8 address space.
type Memory struct {
	data    [MemorySize]byte
	onWrite WriteHook
}

// NewMemory creates zeroed memory.
func NewMemory() *Memory {
	return &Memory{}
}

// SetWriteHook registers fn to be notified of writes. A nil fn removes it.
func (m *Memory) SetWriteHook(fn WriteHook) {
	m.onWrite = fn
}

// Read8 reads one byte. Addresses past the end read as 0.
func (m *Memory) Read8(addr uint16) byte {
	if int(addr) >= MemorySize {
		return 0
	}
	return m.data[addr]
}

// Write8 writes one byte. Writes past the end are dropped.
func (m *Memory) Write8(addr uint16, value byte) {
	if int(addr) >= MemorySize {
		return
	}
	m.data[addr] = value
	m.notify(addr, 1)
}

// Read16 reads a big-endian 16-bit word.
func (m *Memory) Read16(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Read returns a copy of size bytes starting at addr.
func (m *Memory) Read(addr uint16, size int) ([]byte, error) {
	if err := checkRange(addr, size); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, m.data[addr:])
	return out, nil
}

// Write copies data into memory starting at addr. Nothing is written if
// the range does not fit.
func (m *Memory) Write(addr uint16, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	m.notify(addr, len(data))
	return nil
}

// LoadFont copies the built-in glyph set to FontStart.
func (m *Memory) LoadFont() {
	copy(m.data[FontStart:], Font[:])
	m.notify(FontStart, len(Font))
}

// Clear zeroes all memory.
func (m *Memory) Clear() {
	m.data = [MemorySize]byte{}
	m.notify(0, MemorySize)
}

// Snapshot returns a copy of the whole address space.
func (m *Memory) Snapshot() [MemorySize]byte {
	return m.data
}

func (m *Memory) notify(addr uint16, size int) {
	if m.onWrite != nil && size > 0 {
		m.onWrite(addr, size)
	}
}

func checkRange(addr uint16, size int) error {
	if size < 0 || int(addr)+size > MemorySize {
		return &AddressError{Addr: addr, Size: size}
	}
	return nil
}
