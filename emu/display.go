// Package emu provides functional CHIP-8 emulation.
package emu

// Display dimensions.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
)

// Display is the 64x32 monochrome framebuffer, stored row-major with
// index x + y*DisplayWidth.
type Display struct {
	pixels [DisplaySize]bool
	redraw bool
}

// NewDisplay creates a blank display.
func NewDisplay() *Display {
	return &Display{}
}

// Pixel reports whether the pixel at (x, y) is lit. Out-of-range
// coordinates report false.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return d.pixels[x+y*DisplayWidth]
}

// Snapshot returns a copy of the framebuffer.
func (d *Display) Snapshot() [DisplaySize]bool {
	return d.pixels
}

// RedrawPending reports whether the framebuffer changed since the host
// last called ClearRedraw.
func (d *Display) RedrawPending() bool {
	return d.redraw
}

// ClearRedraw acknowledges the current frame.
func (d *Display) ClearRedraw() {
	d.redraw = false
}

// Clear blanks the framebuffer and marks it for redraw.
func (d *Display) Clear() {
	d.pixels = [DisplaySize]bool{}
	d.redraw = true
}

// Reset blanks the framebuffer without requesting a redraw.
func (d *Display) Reset() {
	d.pixels = [DisplaySize]bool{}
	d.redraw = false
}

// VisibleRows returns how many of n sprite rows starting at y would land
// on screen once y is wrapped.
func VisibleRows(y uint8, n uint8) uint8 {
	top := y % DisplayHeight
	if int(top)+int(n) > DisplayHeight {
		return DisplayHeight - top
	}
	return n
}

// DrawSprite XORs sprite rows onto the framebuffer with the top-left
// corner at (x, y). The starting coordinate wraps; the sprite itself is
// clipped at the right and bottom edges. Each row byte is read MSB first.
// It returns true if any lit pixel was turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	left := int(x % DisplayWidth)
	top := int(y % DisplayHeight)
	collision := false

	for row, bits := range sprite {
		py := top + row
		if py >= DisplayHeight {
			break
		}

		for col := 0; col < 8; col++ {
			px := left + col
			if px >= DisplayWidth {
				break
			}

			if bits&(0x80>>col) == 0 {
				continue
			}

			idx := px + py*DisplayWidth
			if d.pixels[idx] {
				collision = true
			}
			d.pixels[idx] = !d.pixels[idx]
		}

		d.redraw = true
	}

	return collision
}
