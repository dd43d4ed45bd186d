// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides structured, leveled logging for haplane.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "text" (default) or "json".
	Format string

	// Output defaults to stderr.
	Output io.Writer

	// ReportTimestamp includes timestamps in output. Defaults on.
	ReportTimestamp bool
}

// DefaultConfig returns the standard daemon logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:           "info",
		Format:          "text",
		ReportTimestamp: true,
	}
}

// Logger is a leveled, key-value logger.
type Logger struct {
	l *log.Logger
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: cfg.ReportTimestamp,
	}
	if cfg.Format == "json" {
		opts.Formatter = log.JSONFormatter
	}

	return &Logger{l: log.NewWithOptions(out, opts)}
}

// WithComponent returns a child logger tagged with a component name.
func (lg *Logger) WithComponent(name string) *Logger {
	return &Logger{l: lg.l.With("component", name)}
}

// With returns a child logger carrying the given key-value pairs.
func (lg *Logger) With(keyvals ...any) *Logger {
	return &Logger{l: lg.l.With(keyvals...)}
}

// Debug logs at debug level.
func (lg *Logger) Debug(msg string, keyvals ...any) { lg.l.Debug(msg, keyvals...) }

// Info logs at info level.
func (lg *Logger) Info(msg string, keyvals ...any) { lg.l.Info(msg, keyvals...) }

// Warn logs at warn level.
func (lg *Logger) Warn(msg string, keyvals ...any) { lg.l.Warn(msg, keyvals...) }

// Error logs at error level.
func (lg *Logger) Error(msg string, keyvals ...any) { lg.l.Error(msg, keyvals...) }

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(DefaultConfig())
)

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(lg *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = lg
}
