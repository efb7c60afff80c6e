// Package logging builds the dual-sink loggers used across mrscope.
//
// Every record goes to both the persistent log file and stderr, carrying a
// timestamp and a "script" attribute naming the command that wrote it, so a
// single log file interleaves the orchestrator and the collaborator
// processes it spawns.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New opens logFile in append mode and returns a logger writing to both the
// file and stderr, plus a close function for the file handle. The log
// directory is created if missing.
func New(logFile, script string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := NewWriter(io.MultiWriter(f, os.Stderr), script)
	return logger, f.Close, nil
}

// NewWriter returns a logger for the given sink. Used directly in tests and
// by New.
func NewWriter(w io.Writer, script string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("script", script))
}

// Discard returns a logger that drops everything. Components take a
// *slog.Logger unconditionally; callers with no log sink pass this.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
