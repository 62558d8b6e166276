// Package loader provides CHIP-8 ROM image loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sarchlab/c8sim/emu"
)

// ErrEmptyProgram is returned for a ROM image with no bytes.
var ErrEmptyProgram = errors.New("empty program")

// Program represents a ROM image ready for loading into the emulator.
type Program struct {
	// Name identifies the image, usually its file name.
	Name string
	// Data is the raw image, copied verbatim to emu.ProgramStart.
	Data []byte
}

// Load reads a ROM image from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(filepath.Base(path), f)
}

// LoadReader reads a ROM image from r. Images larger than the program
// area are rejected with emu.ErrProgramTooLarge.
func LoadReader(name string, r io.Reader) (*Program, error) {
	// One byte past the limit is enough to detect an oversized image.
	data, err := io.ReadAll(io.LimitReader(r, emu.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM %s: %w", name, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("ROM %s: %w", name, ErrEmptyProgram)
	}
	if len(data) > emu.MaxProgramSize {
		return nil, fmt.Errorf("ROM %s exceeds %d bytes: %w",
			name, emu.MaxProgramSize, emu.ErrProgramTooLarge)
	}

	return &Program{Name: name, Data: data}, nil
}

// Size returns the image size in bytes.
func (p *Program) Size() int {
	return len(p.Data)
}

// LoadIntoEmulator copies the image to emu.ProgramStart.
func (p *Program) LoadIntoEmulator(e *emu.Emulator) error {
	if err := e.LoadProgram(p.Data); err != nil {
		return fmt.Errorf("failed to load ROM %s: %w", p.Name, err)
	}
	return nil
}
