package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/scry-scheduler/internal/config"
)

// ErrInvalidFormat is returned when the configured log format is neither json nor text.
var ErrInvalidFormat = errors.New("invalid log format")

// Setup initializes the application's logging system based on the provided
// configuration. Logs go to w, or to stderr when w is nil, so stdout stays
// reserved for command output. The logger is installed as the slog default
// and returned.
func Setup(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	logger, err := New(cfg, w)
	if err != nil {
		return nil, err
	}

	// Set this logger as the default for the application
	// This allows using the slog package functions directly (slog.Info, slog.Error, etc.)
	slog.SetDefault(logger)

	return logger, nil
}

// New builds a logger writing to w without touching the slog default.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level, w)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}

	return slog.New(handler), nil
}

// ParseLevel maps a level name (case-insensitive) to a slog.Level.
// Unknown names fall back to info with a warning written to w.
func ParseLevel(name string, w io.Writer) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Create a temporary logger to output the warning
	tmpLogger := slog.New(slog.NewTextHandler(w, nil))
	tmpLogger.Warn("invalid log level configured, using default level",
		"configured_level", name,
		"default_level", "info")
	return slog.LevelInfo
}
