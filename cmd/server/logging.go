package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"

	"github.com/iliyamo/casting-agency/internal/config"
)

// setupLogging installs the default slog logger: text on stdout and, when
// LOG_FILE is set, JSON lines fanned out to that file as well. The returned
// func closes the file sink.
func setupLogging(cfg config.LogConfig, stdout io.Writer) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}

	text := slog.NewTextHandler(stdout, opts)
	if cfg.File == "" {
		slog.SetDefault(slog.New(text).With(slog.String("service", "casting")))
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(
		text,
		slog.NewJSONHandler(f, opts),
	)).With(slog.String("service", "casting")))
	return func() { _ = f.Close() }, nil
}
