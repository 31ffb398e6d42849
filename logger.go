package genref

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with genref-specific context.
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

// WithPool adds a pool field to the logger.
func (l *Logger) WithPool(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("pool", id),
	}
}

// WithLayout adds the value layout to the logger.
func (l *Logger) WithLayout(layout Layout) *Logger {
	return &Logger{
		Logger: l.Logger.With("layout", layout.String()),
	}
}

// LogAlloc logs a slot handed to a new owner.
// Nothing is formatted unless debug logging is enabled.
func (l *Logger) LogAlloc(index uint32, gen uint64, reused bool) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("slot allocated",
		"index", index,
		"generation", gen,
		"reused", reused,
	)
}

// LogRelease logs a slot returned by its owner.
func (l *Logger) LogRelease(index uint32, gen uint64, retired bool) {
	if retired {
		l.Info("slot retired at terminal generation",
			"index", index,
			"generation", gen,
		)
		return
	}
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("slot released",
		"index", index,
		"generation", gen,
	)
}

// LogFinalizer logs a failing Close of a released value.
func (l *Logger) LogFinalizer(ref string, err error) {
	l.Warn("closing released value failed",
		"ref", ref,
		"error", err,
	)
}

// LogViolation logs a fatal misuse right before it is raised.
func (l *Logger) LogViolation(err error) {
	l.Error("fatal arena misuse",
		"error", err,
	)
}
