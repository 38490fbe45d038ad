// Package logging builds the slog loggers used across oophub.
//
// Records are rendered by charmbracelet/log. The TUI owns stdout, so
// interactive sessions log to a dated file under ~/.oophub/logs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix tags every record written by oophub.
const Prefix = "oophub"

// New returns a logger writing to w at the given level
// (debug, info, warn, error). Unknown levels fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          Prefix,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// DefaultDir returns ~/.oophub/logs.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".oophub", "logs")
}

// FileName returns the log file name for day t.
func FileName(t time.Time) string {
	return fmt.Sprintf("oophub-%s.log", t.Format("2006-01-02"))
}

// OpenFile opens today's log file in dir, or path itself when it names a
// file, and returns a logger writing to it. Close the returned file on exit.
func OpenFile(path, level string) (*slog.Logger, *os.File, error) {
	if path == "" {
		path = DefaultDir()
	}
	if filepath.Ext(path) != ".log" {
		path = filepath.Join(path, FileName(time.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}
