package elut

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/elut/quantization"
)

// Logger wraps slog.Logger with elut-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithPath adds the store path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithBinning adds the aperture binning to the logger.
func (l *Logger) WithBinning(b quantization.Binning) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"bin_edge_width", b.BinEdgeWidth,
			"num_bins_radius", b.NumBinsRadius,
		),
	}
}

// LogAppend logs an append operation. Photons outside the representable
// domain are reported at warn level since they are silently dropped.
func (l *Logger) LogAppend(ctx context.Context, total int, o quantization.Overflow, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "append failed",
			"photons", total,
			"error", err,
		)
	case o.Rejected(total) > 0:
		l.WarnContext(ctx, "append dropped out-of-range photons",
			"photons", total,
			"accepted", o.Accepted,
			"underflow_x", o.UnderflowX,
			"overflow_x", o.OverflowX,
			"underflow_y", o.UnderflowY,
			"overflow_y", o.OverflowY,
			"direction", o.Direction,
		)
	default:
		l.DebugContext(ctx, "append completed",
			"photons", total,
		)
	}
}

// LogQuery logs a circular range query.
func (l *Logger) LogQuery(ctx context.Context, cx, cy, r float64, buckets, photons int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"cx", cx,
			"cy", cy,
			"r", r,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"cx", cx,
			"cy", cy,
			"r", r,
			"buckets", buckets,
			"photons", photons,
		)
	}
}

// LogMaintenance logs merge, verify and archive operations.
func (l *Logger) LogMaintenance(ctx context.Context, op string, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed")
	}
}
