//go:build sdl

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/sarchlab/c8sim/emu"
)

// pixelScale is the size of one CHIP-8 pixel in window pixels.
const pixelScale = 10

func init() {
	// SDL calls must come from the main thread.
	runtime.LockOSThread()
}

type sdlFrontend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
}

func newSDLFrontend() (Frontend, error) {
	return &sdlFrontend{}, nil
}

func (s *sdlFrontend) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}

	window, err := sdl.CreateWindow("c8sim",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		emu.DisplayWidth*pixelScale, emu.DisplayHeight*pixelScale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}

	s.window = window
	s.renderer = renderer
	return nil
}

func (s *sdlFrontend) Poll() ([]KeyEvent, bool) {
	var events []KeyEvent

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			return events, true
		case *sdl.KeyboardEvent:
			if t.Repeat != 0 {
				continue
			}
			pressed := t.Type == sdl.KEYDOWN
			if t.Keysym.Sym == sdl.K_ESCAPE {
				if pressed {
					return events, true
				}
				continue
			}
			if key, ok := sdlKey(t.Keysym.Sym); ok {
				events = append(events, KeyEvent{Key: key, Pressed: pressed})
			}
		}
	}

	return events, false
}

func sdlKey(sym sdl.Keycode) (uint8, bool) {
	switch sym {
	case sdl.K_x:
		return 0x0, true
	case sdl.K_1:
		return 0x1, true
	case sdl.K_2:
		return 0x2, true
	case sdl.K_3:
		return 0x3, true
	case sdl.K_q:
		return 0x4, true
	case sdl.K_w:
		return 0x5, true
	case sdl.K_e:
		return 0x6, true
	case sdl.K_a:
		return 0x7, true
	case sdl.K_s:
		return 0x8, true
	case sdl.K_d:
		return 0x9, true
	case sdl.K_z:
		return 0xA, true
	case sdl.K_c:
		return 0xB, true
	case sdl.K_4:
		return 0xC, true
	case sdl.K_r:
		return 0xD, true
	case sdl.K_f:
		return 0xE, true
	case sdl.K_v:
		return 0xF, true
	}
	return 0, false
}

func (s *sdlFrontend) Render(frame *[emu.DisplaySize]bool) error {
	if err := s.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.SetDrawColor(255, 255, 255, 255); err != nil {
		return err
	}

	for i, lit := range frame {
		if !lit {
			continue
		}
		rect := sdl.Rect{
			X: int32(i%emu.DisplayWidth) * pixelScale,
			Y: int32(i/emu.DisplayWidth) * pixelScale,
			W: pixelScale,
			H: pixelScale,
		}
		if err := s.renderer.FillRect(&rect); err != nil {
			return err
		}
	}

	s.renderer.Present()
	return nil
}

// Beep rings the terminal bell; the window has no audio device.
func (s *sdlFrontend) Beep(on bool) {
	if on {
		_, _ = os.Stdout.WriteString("\a")
	}
}

func (s *sdlFrontend) Close() error {
	if s.renderer != nil {
		_ = s.renderer.Destroy()
	}
	if s.window != nil {
		_ = s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
