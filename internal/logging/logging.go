// Package logging builds the process slog.Logger.
//
// The TUI owns the terminal, so in TUI mode records go to a rotating file;
// every other command logs to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wilbur182/marquee/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file created in the config directory.
const DefaultFileName = "marquee.log"

// Options selects where and how verbosely to log.
type Options struct {
	// TUI routes output to a rotating file instead of Stderr.
	TUI bool
	// Debug forces the debug level regardless of config.
	Debug bool
	// Stderr is the console writer. Defaults to os.Stderr.
	Stderr io.Writer
}

// New returns a logger for cfg. The returned close function releases the log
// file, if one was opened, and is always non-nil.
func New(cfg config.LoggingConfig, opts Options) (*slog.Logger, func() error) {
	level := ParseLevel(cfg.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if !opts.TUI {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		return slog.New(slog.NewTextHandler(w, handlerOpts)), func() error { return nil }
	}

	lj := &lumberjack.Logger{
		Filename:   FilePath(cfg),
		MaxSize:    cfg.MaxSizeMB, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     28, // days
	}
	return slog.New(slog.NewJSONHandler(lj, handlerOpts)), lj.Close
}

// FilePath returns the TUI log file path for cfg.
func FilePath(cfg config.LoggingConfig) string {
	if cfg.File != "" {
		return cfg.File
	}
	return filepath.Join(config.ConfigDir(), DefaultFileName)
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
