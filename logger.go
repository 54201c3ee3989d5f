package jobsystem

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with engine-specific context.
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

// WithTick adds a tick field to the logger.
func (l *Logger) WithTick(tick uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("tick", tick),
	}
}

// WithPointCount adds a point count field to the logger.
func (l *Logger) WithPointCount(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", n),
	}
}

// LogSchedule logs the admission of one tick's job graph.
func (l *Logger) LogSchedule(tick uint64) {
	l.Debug("tick scheduled",
		"tick", tick,
	)
}

// LogFinalize logs one finalized tick.
func (l *Logger) LogFinalize(tick uint64, sum TickSummary, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("tick failed",
			"tick", tick,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.Debug("tick finalized",
			"tick", tick,
			"elapsed", elapsed,
			"distance_avg", sum.DistanceAverage,
			"distance_min", sum.DistanceMin,
			"distance_max", sum.DistanceMax,
			"confidence_avg", sum.ConfidenceAverage,
		)
	}
}

// LogShutdown logs engine shutdown.
func (l *Logger) LogShutdown(ticks uint64, err error) {
	if err != nil {
		l.Error("shutdown failed",
			"ticks", ticks,
			"error", err,
		)
	} else {
		l.Info("engine shut down",
			"ticks", ticks,
		)
	}
}
