package rangefiltertree

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rangefiltertree-specific context, mirroring
// the structured logging every build/query step emits.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is nil,
// uses a default text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	})
	return &Logger{Logger: slog.New(handler)}
}

// LogBuild logs the construction of the bucket pyramid.
func (l *Logger) LogBuild(ctx context.Context, n, dimension, cutoff, levels int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"n", n,
			"dimension", dimension,
			"cutoff", cutoff,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "build completed",
		"n", n,
		"dimension", dimension,
		"cutoff", cutoff,
		"levels", levels,
	)
}

// LogQuery logs a single routed query.
func (l *Logger) LogQuery(ctx context.Context, strategy Strategy, lo, hi float64, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"strategy", strategy.String(),
			"lo", lo,
			"hi", hi,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"strategy", strategy.String(),
		"lo", lo,
		"hi", hi,
		"k", k,
		"results", resultsFound,
	)
}

// LogOutOfRange logs the OutOfRangeWarning diagnostic for a single query
// (§7): not an error, just a note that [lo, hi] missed the index entirely.
func (l *Logger) LogOutOfRange(ctx context.Context, row int, lo, hi float64) {
	l.WarnContext(ctx, "query range does not intersect indexed filter range",
		"row", row,
		"lo", lo,
		"hi", hi,
	)
}

// LogBatch logs a completed batch search.
func (l *Logger) LogBatch(ctx context.Context, strategy Strategy, numQueries, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch search failed",
			"strategy", strategy.String(),
			"queries", numQueries,
			"k", k,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch search completed",
		"strategy", strategy.String(),
		"queries", numQueries,
		"k", k,
	)
}
