// Package term presents the machine in a terminal through termbox.
package term

import (
	"fmt"
	"image/color"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nsf/termbox-go"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Terminals only report key presses, so a key counts as held for this long
// after its last press or auto-repeat.
const keyRepeatDuration = time.Second / 5

// Config holds the terminal settings.
type Config struct {
	Keys  map[uint8]string // CHIP-8 key -> single character
	Lit   color.RGBA
	Unlit color.RGBA
}

// Terminal implements host.Frontend on top of termbox.
type Terminal struct {
	keys    map[rune]uint8
	pressed [16]time.Time
	closed  bool
	now     func() time.Time

	lit   termbox.Attribute
	unlit termbox.Attribute

	// closed by poll once termbox delivers the interrupt
	events chan termbox.Event
}

func newTerminal(cfg Config) (*Terminal, error) {
	t := &Terminal{
		keys:   make(map[rune]uint8, len(cfg.Keys)),
		now:    time.Now,
		lit:    attr256(cfg.Lit),
		unlit:  attr256(cfg.Unlit),
		events: make(chan termbox.Event, 64),
	}
	for k, name := range cfg.Keys {
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) || r == utf8.RuneError {
			return nil, fmt.Errorf("key %X: terminal keys must be a single character, got %q", k, name)
		}
		t.keys[unicode.ToUpper(r)] = k
	}
	return t, nil
}

// attr256 picks the nearest entry of the xterm 6x6x6 colour cube. termbox
// numbers 256-colour attributes from 1, 0 being the terminal default.
func attr256(c color.RGBA) termbox.Attribute {
	level := func(v uint8) int {
		return (int(v)*5 + 127) / 255
	}
	return termbox.Attribute(16 + 36*level(c.R) + 6*level(c.G) + level(c.B) + 1)
}

// Open takes over the terminal. Call Close to restore it.
func Open(cfg Config) (*Terminal, error) {
	t, err := newTerminal(cfg)
	if err != nil {
		return nil, err
	}
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.Output256)
	termbox.HideCursor()

	go t.poll()
	return t, nil
}

// poll forwards termbox events until Interrupt is called.
func (t *Terminal) poll() {
	defer close(t.events)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		t.events <- ev
	}
}

// Close stops the input goroutine and restores the terminal. Interrupt
// blocks until PollEvent receives it, so events are drained meanwhile to
// keep poll from stalling on a full channel.
func (t *Terminal) Close() {
	go func() {
		for range t.events {
		}
	}()
	termbox.Interrupt()
	termbox.Close()
}

func (t *Terminal) Closed() bool {
	return t.closed
}

func (t *Terminal) handle(ev termbox.Event) {
	switch ev.Type {
	case termbox.EventError:
		t.closed = true
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
			t.closed = true
			return
		}
		if k, ok := t.keys[unicode.ToUpper(ev.Ch)]; ok && ev.Ch != 0 {
			t.pressed[k] = t.now()
		}
	}
}

// HeldKey returns the lowest key pressed within keyRepeatDuration.
func (t *Terminal) HeldKey() (uint8, bool) {
	now := t.now()
	for k, at := range t.pressed {
		if !at.IsZero() && now.Sub(at) < keyRepeatDuration {
			return uint8(k), true
		}
	}
	return 0, false
}

// Render draws each pixel as two character cells.
func (t *Terminal) Render(fb *cpu.Framebuffer) {
	for y := 0; y < cpu.Height; y++ {
		for x := 0; x < cpu.Width; x++ {
			bg := t.unlit
			if fb.Pixel(x, y) {
				bg = t.lit
			}
			termbox.SetCell(2*x, y, ' ', termbox.ColorDefault, bg)
			termbox.SetCell(2*x+1, y, ' ', termbox.ColorDefault, bg)
		}
	}
}

// Update drains pending input and flushes the screen.
func (t *Terminal) Update() {
	t.drain()
	termbox.Flush()
}

// drain handles every queued event without blocking. A closed channel means
// the poller is gone and ends the session.
func (t *Terminal) drain() {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				t.closed = true
				return
			}
			t.handle(ev)
		default:
			return
		}
	}
}
