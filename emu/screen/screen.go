// Package screen presents the machine in a pixelgl window.
package screen

import (
	"fmt"
	"image/color"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Config holds the window settings.
type Config struct {
	Title string
	Scale float64
	Lit   color.RGBA
	Unlit color.RGBA
	Keys  map[uint8]string // CHIP-8 key -> button name, see Buttons
}

// Window is a pixelgl window that implements host.Frontend.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button

	imd   *imdraw.IMDraw
	scale float64
	lit   color.RGBA
	unlit color.RGBA
}

// NewWindow opens the window. It must be called from within pixelgl.Run.
func NewWindow(cfg Config) (*Window, error) {
	if cfg.Title == "" {
		cfg.Title = "Chyp8"
	}
	keyMap, err := buttonMap(cfg.Keys)
	if err != nil {
		return nil, err
	}

	win, err := pixelgl.NewWindow(pixelgl.WindowConfig{
		Title:  cfg.Title,
		Bounds: pixel.R(0, 0, cpu.Width*cfg.Scale, cpu.Height*cfg.Scale),
		VSync:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	win.Clear(cfg.Unlit)

	return &Window{
		Window: win,
		KeyMap: keyMap,
		imd:    imdraw.New(nil),
		scale:  cfg.Scale,
		lit:    cfg.Lit,
		unlit:  cfg.Unlit,
	}, nil
}

// Closed reports whether the window was closed or Escape was pressed.
func (w *Window) Closed() bool {
	return w.Window.Closed() || w.Pressed(pixelgl.KeyEscape)
}

// Render rebuilds the picture as one rectangle per lit pixel. Row 0 is at the top of the window.
func (w *Window) Render(fb *cpu.Framebuffer) {
	w.imd.Clear()
	w.imd.Color = w.lit
	for y := 0; y < cpu.Height; y++ {
		for x := 0; x < cpu.Width; x++ {
			if !fb.Pixel(x, y) {
				continue
			}
			top := float64(cpu.Height-y) * w.scale
			w.imd.Push(
				pixel.V(float64(x)*w.scale, top-w.scale),
				pixel.V(float64(x+1)*w.scale, top),
			)
			w.imd.Rectangle(0)
		}
	}
}

// Update redraws the last rendered frame and polls input.
func (w *Window) Update() {
	w.Clear(w.unlit)
	w.imd.Draw(w)
	w.Window.Update()
}

// HeldKey returns the lowest CHIP-8 key whose button is down.
func (w *Window) HeldKey() (uint8, bool) {
	for k := uint16(0); k < 16; k++ {
		if w.Pressed(w.KeyMap[k]) {
			return uint8(k), true
		}
	}
	return 0, false
}
