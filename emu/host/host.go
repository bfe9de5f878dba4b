// Package host drives the interpreter in real time: it paces frames, relays
// keys from a Frontend into the machine, presents redraws and ticks the
// timers at a fixed cadence.
package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Frontend is the window or terminal the machine is presented on.
type Frontend interface {
	Closed() bool
	Render(fb *cpu.Framebuffer)
	// HeldKey returns the CHIP-8 key currently held down, if any.
	HeldKey() (uint8, bool)
	// Update pumps input events and presents the last rendered frame.
	Update()
}

// Config sets the instruction rate and the timer cadence, both in Hz.
type Config struct {
	ClockHz int
	TimerHz int
}

// Defaults fills missing fields with the conventional rates.
func (c *Config) Defaults() {
	if c.TimerHz <= 0 {
		c.TimerHz = 60
	}
	if c.ClockHz <= 0 {
		c.ClockHz = 600
	}
}


// Runner owns the host loop for one machine.
type Runner struct {
	emu *cpu.EMU
	fe  Frontend
	cfg Config
	log *slog.Logger

	lastKey  uint8
	lastHeld bool

	// key that was already down when the current Fx0A wait began
	staleKey  uint8
	staleHeld bool

	carry  int // ClockHz remainder owed to the next frame
	frames uint64
}

func New(emu *cpu.EMU, fe Frontend, cfg Config, logger *slog.Logger) *Runner {
	cfg.Defaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{emu: emu, fe: fe, cfg: cfg, log: logger}
}

// Frames returns how many frames have completed.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// steps returns the instruction count for the next frame. The division
// remainder is carried so that TimerHz frames run exactly ClockHz steps.
func (r *Runner) steps() int {
	total := r.cfg.ClockHz + r.carry
	r.carry = total % r.cfg.TimerHz
	return total / r.cfg.TimerHz
}

// event builds the input for the next Step and reports whether the key was
// pressed since the previous cycle. While the machine waits on Fx0A, any
// held key resolves the wait unless it was already down when the wait began.
func (r *Runner) event() (cpu.Event, bool) {
	key, held := r.fe.HeldKey()
	fresh := held && (!r.lastHeld || key != r.lastKey)
	r.lastKey, r.lastHeld = key, held

	if r.staleHeld && (!held || key != r.staleKey) {
		r.staleHeld = false
	}
	if !held {
		return cpu.Event{}, false
	}
	if _, waiting := r.emu.AwaitingKey(); waiting && !r.staleHeld {
		return cpu.Resolve(key), fresh
	}
	return cpu.Press(key), fresh
}

// Frame runs one frame worth of instructions, then ticks the timers once.
func (r *Runner) Frame() error {
	for i, n := 0, r.steps(); i < n; i++ {
		_, wasWaiting := r.emu.AwaitingKey()
		ev, fresh := r.event()

		out, err := r.emu.Step(ev)
		if err != nil {
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}
		if out.Kind == cpu.AwaitKey && !wasWaiting && ev.Kind == cpu.KeyPress && !fresh {
			r.staleKey, r.staleHeld = ev.Key, true
		}
		if out.Kind == cpu.Redraw {
			r.fe.Render(&out.Frame)
		}
		if out.Kind == cpu.AwaitKey {
			break
		}
	}
	r.emu.TickTimers()
	r.fe.Update()
	r.frames++
	return nil
}

// Run paces frames at TimerHz until the frontend closes or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("running", "clock", r.cfg.ClockHz, "timer", r.cfg.TimerHz)

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.TimerHz))
	defer ticker.Stop()

	for !r.fe.Closed() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := r.Frame(); err != nil {
			return err
		}
	}
	r.log.Info("frontend closed", "frames", r.frames)
	return nil
}
