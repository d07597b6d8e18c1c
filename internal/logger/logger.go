// Package logger provides the global structured logger: JSON records
// over a rotating file, plus warn/error counters surfaced in the status
// bar. The TUI owns the terminal, so nothing is ever written to stderr
// after startup.
package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// counterHandler wraps another handler and counts WARN/ERROR records so
// the status bar can show that something went wrong without the user
// tailing the log file.
type counterHandler struct {
	inner slog.Handler

	mu         sync.Mutex
	warnCount  int
	errorCount int
}

func (h *counterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *counterHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.mu.Lock()
		if r.Level >= slog.LevelError {
			h.errorCount++
		} else {
			h.warnCount++
		}
		h.mu.Unlock()
	}
	return h.inner.Handle(ctx, r)
}

func (h *counterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &counterHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *counterHandler) WithGroup(name string) slog.Handler {
	return &counterHandler{inner: h.inner.WithGroup(name)}
}

func (h *counterHandler) counts() (warn, err int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.warnCount, h.errorCount
}

var (
	// Log is the global structured logger.
	Log *slog.Logger
	// LogPath is the path of the current log file.
	LogPath string

	logWriter *lumberjack.Logger
	counter   *counterHandler
)

// ParseLevel maps a config level name to a slog level, defaulting to
// info for unknown names.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// Init initializes the global logger. An empty path defaults to
// ~/.config/opsdeck/opsdeck.log.
func Init(level slog.Level, logPath string) {
	if logPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.TempDir()
		}
		logPath = filepath.Join(homeDir, ".config", "opsdeck", "opsdeck.log")
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0755)
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     7, // days
		Compress:   true,
	}

	opts := &slog.HandlerOptions{Level: level}
	counter = &counterHandler{inner: slog.NewJSONHandler(logWriter, opts)}

	Log = slog.New(counter)
	slog.SetDefault(Log)
}

// Close closes the log file.
func Close() {
	if logWriter != nil {
		logWriter.Close()
	}
}

func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// Counts returns how many warnings and errors have been logged since
// startup.
func Counts() (warn, err int) {
	if counter == nil {
		return 0, 0
	}
	return counter.counts()
}
