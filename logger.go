package treekit

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with treekit-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithArtifact adds an artifact name field to the logger.
func (l *Logger) WithArtifact(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("artifact", name),
	}
}

// WithTreeCount adds a tree count field to the logger.
func (l *Logger) WithTreeCount(n uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("trees", n),
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, trees uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"trees", trees,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "save completed",
			"trees", trees,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, trees uint64, legacy bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"trees", trees,
			"legacy", legacy,
		)
	}
}
