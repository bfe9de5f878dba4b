package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/config"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
	"github.com/beanboi7/chyp8/emu/rom"
	"github.com/beanboi7/chyp8/emu/screen"
	"github.com/beanboi7/chyp8/emu/term"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

func init() {
	f := startCmd.Flags()
	f.IntP("clock", "c", 600, "instructions executed per second")
	f.IntP("refresh", "r", 60, "sets the timer and display refresh rate in Hz")
	f.Float64P("scale", "s", 10, "window pixels per Chip-8 pixel")
	f.StringP("frontend", "f", config.FrontendWindow, "window or terminal (redirect stderr when using the terminal)")
	f.Bool("trace", false, "log every executed instruction at debug level")

	for key, flag := range map[string]string{
		"clock":    "clock",
		"timer":    "refresh",
		"scale":    "scale",
		"frontend": "frontend",
		"trace":    "trace",
	} {
		cobra.CheckErr(viper.BindPFlag(key, f.Lookup(flag)))
	}
}

// chyp8 start 'path/to/ROM' -r 60 -c 700
func Start(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	program, err := rom.Read(args[0])
	if err != nil {
		return err
	}
	emu, err := cpu.NewEMU(program, cpu.WithLogger(logger), cpu.WithTrace(cfg.Trace))
	if err != nil {
		return err
	}
	logger.Info("loaded ROM", "path", args[0], "bytes", len(program))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if cfg.Frontend == config.FrontendTerminal {
		return runTerminal(ctx, emu, cfg, logger)
	}

	// pixelgl needs the main goroutine; cobra runs RunE on it.
	pixelgl.Run(func() {
		err = runWindow(ctx, emu, cfg, logger)
	})
	return err
}

func runWindow(ctx context.Context, emu *cpu.EMU, cfg config.Config, logger *slog.Logger) error {
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}
	lit, unlit, err := cfg.Palette()
	if err != nil {
		return err
	}

	win, err := screen.NewWindow(screen.Config{
		Scale: cfg.Scale,
		Lit:   lit,
		Unlit: unlit,
		Keys:  keys,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	return run(ctx, emu, win, cfg, logger)
}

func runTerminal(ctx context.Context, emu *cpu.EMU, cfg config.Config, logger *slog.Logger) error {
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}
	lit, unlit, err := cfg.Palette()
	if err != nil {
		return err
	}
	t, err := term.Open(term.Config{Keys: keys, Lit: lit, Unlit: unlit})
	if err != nil {
		return err
	}
	defer t.Close()

	return run(ctx, emu, t, cfg, logger)
}

func run(ctx context.Context, emu *cpu.EMU, fe host.Frontend, cfg config.Config, logger *slog.Logger) error {
	r := host.New(emu, fe, host.Config{ClockHz: cfg.Clock, TimerHz: cfg.Timer}, logger)
	err := r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", "frames", r.Frames())
		return nil
	}
	return err
}
