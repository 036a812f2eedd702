// Package logging configures structured logging with tint.
//
// The terminal belongs to the UI while it runs, so the handler normally
// writes to a log file; headless runs may log to stderr instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint handler on w as the default logger.
// Colors are only used when color is true.
func Setup(w io.Writer, level slog.Level, color bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			AddSource:  level == slog.LevelDebug,
			NoColor:    !color,
		}),
	))
}

// SetupFile appends log output to path and returns the file so the caller
// can close it on exit.
func SetupFile(path string, level slog.Level) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Setup(f, level, false)
	return f, nil
}

// ParseLevel maps debug, info, warn and error to a level (default: info).
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
