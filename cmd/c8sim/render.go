package main

import (
	"bufio"
	"io"

	"github.com/sarchlab/c8sim/emu"
)

const cursorHome = "\x1b[H"

// renderFrame writes the framebuffer as text using half-block characters,
// two pixel rows per line.
func renderFrame(w io.Writer, frame *[emu.DisplaySize]bool) error {
	bw := bufio.NewWriter(w)

	for y := 0; y < emu.DisplayHeight; y += 2 {
		for x := 0; x < emu.DisplayWidth; x++ {
			top := frame[x+y*emu.DisplayWidth]
			bottom := frame[x+(y+1)*emu.DisplayWidth]
			switch {
			case top && bottom:
				_, _ = bw.WriteString("█")
			case top:
				_, _ = bw.WriteString("▀")
			case bottom:
				_, _ = bw.WriteString("▄")
			default:
				_ = bw.WriteByte(' ')
			}
		}
		_, _ = bw.WriteString("\r\n")
	}

	return bw.Flush()
}
