// Package logging builds astrodeck's zerolog logger.
//
// The TUI owns the terminal, so logs are written to a file as JSON lines.
// One-shot CLI commands may add a console writer on stderr instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the log level and destinations.
type Config struct {
	Level string
	File  string
	// Console, when set, receives human-readable output in addition to the
	// file.
	Console io.Writer
}

// Result is a configured logger and what it writes to.
type Result struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file, if one was opened.
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds a logger from cfg. A log file that cannot be opened does not
// fail startup: the logger falls back to the console writer, or discards
// output when there is none, and the reason is recorded in the result.
func New(cfg Config) *Result {
	level := ParseLevel(cfg.Level)
	result := &Result{}

	var writers []io.Writer
	if cfg.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: cfg.Console, TimeFormat: time.Kitchen})
	}

	if path := strings.TrimSpace(cfg.File); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			result.FallbackUsed = true
			result.FallbackReason = err.Error()
		} else {
			result.file = file
			result.FilePath = path
			result.UsingFile = true
			writers = append(writers, file)
		}
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	result.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
	return result
}

// Component tags every event with the component that logged it.
func Component(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// ParseLevel maps a level name onto zerolog, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
