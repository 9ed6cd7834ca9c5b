package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"coursegen/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives log output; nil means stderr.
	Writer io.Writer
	// Color forces console colors on or off; nil follows the terminal.
	Color *bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	terminal := isTerminal(writer)
	addSource := level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "", "auto":
		if terminal {
			format = "console"
		} else {
			format = "json"
		}
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(writer, levelVar, addSource)
	case "console":
		colored := terminal
		if opts.Color != nil {
			colored = *opts.Color
		}
		handler = newPrettyHandler(writer, levelVar, addSource, colored)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewFromConfig creates a logger writing to stderr. When logging.file is set,
// every record is also appended to that file; the returned close function
// releases it and is safe to call when no file was opened.
func NewFromConfig(cfg *config.Config) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil {
		logger, err := New(Options{Level: "info", Format: "auto"})
		return logger, noop, err
	}

	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	path := strings.TrimSpace(cfg.Logging.File)
	if path == "" {
		logger, err := New(opts)
		return logger, noop, err
	}

	file, err := openLogFile(path)
	if err != nil {
		return nil, noop, err
	}
	if opts.Format == "" || opts.Format == "auto" {
		// auto follows stderr, not the file copy.
		opts.Format = "json"
		if isTerminal(os.Stderr) {
			opts.Format = "console"
		}
	}
	opts.Writer = io.MultiWriter(os.Stderr, file)
	logger, err := New(opts)
	if err != nil {
		_ = file.Close()
		return nil, noop, err
	}
	return logger, file.Close, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

// isTerminal reports whether w is a character device such as an interactive shell.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
