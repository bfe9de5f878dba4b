package cmd

import (
	"io"
	"log/slog"

	"github.com/beanboi7/chyp8/emu/config"
)

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
