// Package telemetry provides the structured logging this library emits: one
// Debug record per forest Update; traversal and compaction emit no log
// records. It is a thin wrapper over
// log/slog, scaled down to what a library (not a service) needs: no file
// rotation, no exporters, just a logger callers can point wherever they
// already send their own structured logs.
package telemetry

import (
	"log/slog"
	"os"
)

// Logger wraps a *slog.Logger, tolerating a nil receiver so components
// that never configured one can log unconditionally without a nil check
// at every call site.
type Logger struct {
	slog *slog.Logger
}

// Default returns a Logger over slog.Default().
func Default() *Logger {
	return &Logger{slog: slog.Default()}
}

// New wraps an existing *slog.Logger. A nil logger is replaced with a
// no-op handler, so New(nil) is safe and silent.
func New(l *slog.Logger) *Logger {
	if l == nil {
		return &Logger{slog: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
	}
	return &Logger{slog: l}
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{slog: l.slog.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l == nil {
		return
	}
	l.slog.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	if l == nil {
		return
	}
	l.slog.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		return
	}
	l.slog.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		return
	}
	l.slog.Error(msg, args...)
}

// Slog exposes the underlying *slog.Logger for callers that want to attach
// it to their own request-scoped loggers.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l.slog
}
