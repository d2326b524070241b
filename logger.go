package alignmentwriter

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pack/unpack specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRunID tags subsequent log lines with a run identifier, for
// correlating block-level lines from one pack/unpack invocation.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", runID),
	}
}

// WithFormat adds a dialect-format field to the logger.
func (l *Logger) WithFormat(format string) *Logger {
	return &Logger{
		Logger: l.Logger.With("format", format),
	}
}

// LogPackStarted logs the start of a pack operation.
func (l *Logger) LogPackStarted(ctx context.Context, format string, nQueries, nTargets int) {
	l.InfoContext(ctx, "pack started",
		"format", format,
		"n_queries", nQueries,
		"n_targets", nTargets,
	)
}

// LogPackFailed logs a fatal pack failure.
func (l *Logger) LogPackFailed(ctx context.Context, line int, err error) {
	l.ErrorContext(ctx, "pack failed",
		"line", line,
		"error", err,
	)
}

// LogBlockFlushed logs a block flush during packing.
func (l *Logger) LogBlockFlushed(ctx context.Context, blockIndex, nHits, nQueries int) {
	l.DebugContext(ctx, "block flushed",
		"block", blockIndex,
		"hits", nHits,
		"queries", nQueries,
	)
}

// LogPackCompleted logs a successful pack operation.
func (l *Logger) LogPackCompleted(ctx context.Context, nBlocks int) {
	l.InfoContext(ctx, "pack completed",
		"blocks", nBlocks,
	)
}

// LogUnpackStarted logs the start of an unpack operation.
func (l *Logger) LogUnpackStarted(ctx context.Context, format string, threads int) {
	l.InfoContext(ctx, "unpack started",
		"format", format,
		"threads", threads,
	)
}

// LogBlockDecoded logs a successfully decoded block during unpacking.
func (l *Logger) LogBlockDecoded(ctx context.Context, blockIndex, nQueries int) {
	l.DebugContext(ctx, "block decoded",
		"block", blockIndex,
		"queries", nQueries,
	)
}

// LogUnpackFailed logs a fatal unpack failure.
func (l *Logger) LogUnpackFailed(ctx context.Context, blockIndex int, err error) {
	l.ErrorContext(ctx, "unpack failed",
		"block", blockIndex,
		"error", err,
	)
}

// LogUnpackCompleted logs a successful unpack operation.
func (l *Logger) LogUnpackCompleted(ctx context.Context, nBlocks int) {
	l.InfoContext(ctx, "unpack completed",
		"blocks", nBlocks,
	)
}
